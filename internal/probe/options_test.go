package probe

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptionsDefaults(t *testing.T) {
	opts := NewOptions()

	assert.Equal(t, ":8080", opts.Server.Addr)
	assert.Equal(t, "release", opts.Server.Mode)
	assert.Equal(t, 30*time.Second, opts.ShutdownTimeout)
	require.NotNil(t, opts.Log)
	require.NotNil(t, opts.Mongo)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Options) {},
		},
		{
			name:    "empty addr",
			mutate:  func(o *Options) { o.Server.Addr = "" },
			wantErr: "http addr cannot be empty",
		},
		{
			name:    "bad gin mode",
			mutate:  func(o *Options) { o.Server.Mode = "verbose" },
			wantErr: "invalid http mode",
		},
		{
			name:    "mongo options are validated too",
			mutate:  func(o *Options) { o.Mongo.Host = "" },
			wantErr: "host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewOptions()
			tt.mutate(opts)

			err := opts.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestOptionsAddFlags(t *testing.T) {
	opts := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs)

	for _, name := range []string{
		"http.addr", "http.mode", "log.level", "log.engine",
		"mongo.uri", "mongo.database", "shutdown-timeout",
	} {
		assert.NotNil(t, fs.Lookup(name), "flag %s should be registered", name)
	}

	require.NoError(t, fs.Parse([]string{"--http.addr=:9090", "--mongo.uri=mongodb://localhost/db"}))
	assert.Equal(t, ":9090", opts.Server.Addr)
	assert.Equal(t, "mongodb://localhost/db", opts.Mongo.URI)
}
