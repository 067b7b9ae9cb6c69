// Package probe provides the MongoDB connectivity probe service.
package probe

import (
	"fmt"

	"github.com/kart-io/logger"

	"github.com/kart-io/mongo-probe/pkg/app"
	"github.com/kart-io/mongo-probe/pkg/component/mongodb"
)

const (
	// Name is the name of the application.
	Name = "mongo-probe"

	description = `MongoDB connectivity probe service.

The service connects to a configured MongoDB deployment at startup and
exposes read-only HTTP endpoints that report connection liveness and
enumerate collections of the configured database:

  GET /check-connection   liveness probe with the reported server version
  GET /test-data          collection names of the configured database
  GET /healthz            aggregate health status
  GET /version            build version information

The MongoDB endpoint is taken from --mongo.uri, the ` + mongodb.EnvURI + `
environment variable, or the mongo section of the config file.`
)

// NewApp creates a new probe application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(Name),
		app.WithShortDescription("MongoDB connectivity probe service"),
		app.WithDescription(description),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run runs the probe service with the given options.
func Run(opts *Options) error {
	opts.Log.AddInitialField("service.name", Name)
	opts.Log.AddInitialField("service.version", app.GetVersion())
	log, err := logger.New(opts.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetGlobal(log)
	logger.Info("Starting mongo-probe service...")

	// The connection is best effort: a failure is recorded and surfaced
	// by the handlers, it never prevents the HTTP service from starting.
	store, connErr := mongodb.New(opts.Mongo)
	if connErr != nil {
		logger.Errorw("MongoDB connection error", "error", connErr)
	} else {
		logger.Infow("MongoDB connection successful", "target", opts.Mongo.String())
	}

	srv := NewServer(opts, store, connErr)
	return srv.Run()
}
