package probe

import (
	"fmt"
	"time"

	"github.com/kart-io/logger/option"
	"github.com/spf13/pflag"

	"github.com/kart-io/mongo-probe/pkg/app"
	"github.com/kart-io/mongo-probe/pkg/component/mongodb"
)

// ServerOptions contains HTTP server configuration.
type ServerOptions struct {
	// Addr is the address to listen on.
	Addr string `json:"addr" mapstructure:"addr"`
	// Mode is the gin mode (release|debug|test).
	Mode string `json:"mode" mapstructure:"mode"`
	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `json:"read-timeout" mapstructure:"read-timeout"`
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`
	// IdleTimeout is the maximum amount of time to wait for the next request.
	IdleTimeout time.Duration `json:"idle-timeout" mapstructure:"idle-timeout"`
}

// NewServerOptions creates ServerOptions with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		Addr:         ":8080",
		Mode:         "release",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// AddFlags adds HTTP server flags to the specified FlagSet.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Addr, "http.addr", o.Addr, "Specify the HTTP server bind address and port.")
	fs.StringVar(&o.Mode, "http.mode", o.Mode, "Gin mode (release|debug|test).")
	fs.DurationVar(&o.ReadTimeout, "http.read-timeout", o.ReadTimeout, "Timeout for reading the entire request.")
	fs.DurationVar(&o.WriteTimeout, "http.write-timeout", o.WriteTimeout, "Timeout before timing out writes of the response.")
	fs.DurationVar(&o.IdleTimeout, "http.idle-timeout", o.IdleTimeout, "Maximum amount of time to wait for the next request.")
}

// Validate checks whether the server options are valid.
func (o *ServerOptions) Validate() error {
	if o.Addr == "" {
		return fmt.Errorf("http addr cannot be empty")
	}
	switch o.Mode {
	case "release", "debug", "test":
	default:
		return fmt.Errorf("invalid http mode %q, must be release, debug or test", o.Mode)
	}
	return nil
}

// Options contains the configuration options for the probe service.
type Options struct {
	// Server contains HTTP server configuration.
	Server *ServerOptions `json:"server" mapstructure:"server"`

	// Log contains logger configuration.
	Log *option.LogOption `json:"log" mapstructure:"log"`

	// Mongo contains MongoDB connection configuration.
	Mongo *mongodb.Options `json:"mongo" mapstructure:"mongo"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewOptions creates an Options instance with default values.
func NewOptions() *Options {
	return &Options{
		Server:          NewServerOptions(),
		Log:             option.DefaultLogOption(),
		Mongo:           mongodb.NewOptions(),
		ShutdownTimeout: 30 * time.Second,
	}
}

// AddFlags adds all probe service flags to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.Server.AddFlags(fs)
	o.addLogFlags(fs)
	o.Mongo.AddFlags(fs, "mongo.")
	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout")
}

// addLogFlags registers the logger flags under the log. prefix. The
// library's own AddFlags uses unprefixed names, which would collide with
// the rest of the flag surface.
func (o *Options) addLogFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Log.Engine, "log.engine", o.Log.Engine, "Logging engine (zap|slog)")
	fs.StringVar(&o.Log.Level, "log.level", o.Log.Level, "Log level (DEBUG|INFO|WARN|ERROR|FATAL)")
	fs.StringVar(&o.Log.Format, "log.format", o.Log.Format, "Log format (json|console)")
	fs.StringSliceVar(&o.Log.OutputPaths, "log.output-paths", o.Log.OutputPaths, "Output paths for logs")
	fs.BoolVar(&o.Log.Development, "log.development", o.Log.Development, "Enable development mode")
	fs.BoolVar(&o.Log.DisableCaller, "log.disable-caller", o.Log.DisableCaller, "Disable caller detection")
	fs.BoolVar(&o.Log.DisableStacktrace, "log.disable-stacktrace", o.Log.DisableStacktrace, "Disable stacktrace capture")
}

// Complete completes all the required options.
func (o *Options) Complete() error {
	return o.Mongo.Complete()
}

// Validate checks whether the options are valid.
func (o *Options) Validate() error {
	if err := o.Server.Validate(); err != nil {
		return err
	}
	if err := o.Log.Validate(); err != nil {
		return err
	}
	return o.Mongo.Validate()
}

var _ app.CliOptions = (*Options)(nil)
