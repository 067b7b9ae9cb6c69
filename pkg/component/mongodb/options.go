package mongodb

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/kart-io/mongo-probe/pkg/component"
)

// redactedPassword is the placeholder used when serializing passwords.
const redactedPassword = "[REDACTED]"

// Environment variables consulted when the corresponding option is empty.
// Credentials belong in the environment, never in config files or flags.
const (
	EnvURI      = "MONGO_URI"
	EnvPassword = "MONGODB_PASSWORD"
)

// Options defines configuration options for the MongoDB connection.
// Either URI or the host/port components may be used; URI wins when set.
type Options struct {
	// Connection
	URI      string `json:"uri" mapstructure:"uri"`           // Full MongoDB URI (mongodb:// or mongodb+srv://)
	Host     string `json:"host" mapstructure:"host"`         // Host (if not using URI)
	Port     int    `json:"port" mapstructure:"port"`         // Port (default 27017)
	Username string `json:"username" mapstructure:"username"` // Username
	Password string `json:"-" mapstructure:"password"`        // Password (use env var) - excluded from JSON
	Database string `json:"database" mapstructure:"database"` // Logical database name

	// Behavior
	AuthSource    string `json:"auth-source" mapstructure:"auth-source"`
	ReplicaSet    string `json:"replica-set" mapstructure:"replica-set"`
	Direct        bool   `json:"direct" mapstructure:"direct"`
	AppName       string `json:"app-name" mapstructure:"app-name"`
	WriteMajority bool   `json:"write-majority" mapstructure:"write-majority"`

	// Timeouts
	ConnectTimeout         time.Duration `json:"connect-timeout" mapstructure:"connect-timeout"`
	SocketTimeout          time.Duration `json:"socket-timeout" mapstructure:"socket-timeout"`
	ServerSelectionTimeout time.Duration `json:"server-selection-timeout" mapstructure:"server-selection-timeout"`

	// OperationTimeout bounds individual diagnostic operations (ping,
	// buildInfo, collection listing) issued through the client.
	OperationTimeout time.Duration `json:"operation-timeout" mapstructure:"operation-timeout"`
}

// optionsForJSON is used for JSON marshaling with password redacted.
type optionsForJSON struct {
	URI                    string        `json:"uri"`
	Host                   string        `json:"host"`
	Port                   int           `json:"port"`
	Username               string        `json:"username"`
	Password               string        `json:"password"`
	Database               string        `json:"database"`
	AuthSource             string        `json:"auth-source"`
	ReplicaSet             string        `json:"replica-set"`
	Direct                 bool          `json:"direct"`
	AppName                string        `json:"app-name"`
	WriteMajority          bool          `json:"write-majority"`
	ConnectTimeout         time.Duration `json:"connect-timeout"`
	SocketTimeout          time.Duration `json:"socket-timeout"`
	ServerSelectionTimeout time.Duration `json:"server-selection-timeout"`
	OperationTimeout       time.Duration `json:"operation-timeout"`
}

// MarshalJSON implements json.Marshaler with password redaction.
// This prevents accidental credential exposure in logs or debug output.
func (o *Options) MarshalJSON() ([]byte, error) {
	password := redactedPassword
	if o.Password == "" {
		password = ""
	}

	return json.Marshal(optionsForJSON{
		URI:                    redactURI(o.URI),
		Host:                   o.Host,
		Port:                   o.Port,
		Username:               o.Username,
		Password:               password,
		Database:               o.Database,
		AuthSource:             o.AuthSource,
		ReplicaSet:             o.ReplicaSet,
		Direct:                 o.Direct,
		AppName:                o.AppName,
		WriteMajority:          o.WriteMajority,
		ConnectTimeout:         o.ConnectTimeout,
		SocketTimeout:          o.SocketTimeout,
		ServerSelectionTimeout: o.ServerSelectionTimeout,
		OperationTimeout:       o.OperationTimeout,
	})
}

// String returns a string representation with credentials redacted.
// Safe for logging and debugging.
func (o *Options) String() string {
	password := redactedPassword
	if o.Password == "" {
		password = ""
	}
	return fmt.Sprintf("MongoDB{uri=%s, host=%s, port=%d, user=%s, password=%s, database=%s}",
		redactURI(o.URI), o.Host, o.Port, o.Username, password, o.Database)
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Host:                   "127.0.0.1",
		Port:                   27017,
		AuthSource:             "admin",
		AppName:                "mongo-probe",
		WriteMajority:          true,
		ConnectTimeout:         10 * time.Second,
		SocketTimeout:          30 * time.Second,
		ServerSelectionTimeout: 10 * time.Second,
		OperationTimeout:       5 * time.Second,
	}
}

// Complete fills in any fields not set that are required to have valid data.
// The URI and password fall back to their environment variables, and the
// logical database name is resolved from the URI path when not set
// explicitly, so database resolution is a visible configuration step
// rather than implicit driver behavior.
func (o *Options) Complete() error {
	if o.URI == "" {
		o.URI = os.Getenv(EnvURI)
	}
	if o.Password == "" {
		o.Password = os.Getenv(EnvPassword)
	}
	if o.Database == "" && o.URI != "" {
		db, err := DatabaseFromURI(o.URI)
		if err != nil {
			return fmt.Errorf("resolve database from uri: %w", err)
		}
		o.Database = db
	}
	return nil
}

// Validate checks if the options are valid.
func (o *Options) Validate() error {
	if o.Password != "" && os.Getenv(EnvPassword) == "" {
		fmt.Fprintf(os.Stderr, "WARNING: Passing the MongoDB password via CLI or config file is insecure. Use the %s environment variable instead.\n", EnvPassword)
	}
	return o.check()
}

// check holds the structural validation shared by Validate and the
// client constructor.
func (o *Options) check() error {
	// If URI is provided, minimal validation needed.
	if o.URI != "" {
		return nil
	}

	if o.Host == "" {
		return fmt.Errorf("host is required when URI is not provided")
	}
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	return nil
}

// AddFlags adds flags for MongoDB options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, namePrefix string) {
	fs.StringVar(&o.URI, namePrefix+"uri", o.URI, "MongoDB URI (mongodb://... or mongodb+srv://...), falls back to $"+EnvURI)
	fs.StringVar(&o.Host, namePrefix+"host", o.Host, "MongoDB host")
	fs.IntVar(&o.Port, namePrefix+"port", o.Port, "MongoDB port")
	fs.StringVar(&o.Username, namePrefix+"username", o.Username, "MongoDB username")
	fs.StringVar(&o.Password, namePrefix+"password", o.Password, "MongoDB password (DEPRECATED: use $"+EnvPassword+" instead)")
	fs.StringVar(&o.Database, namePrefix+"database", o.Database, "MongoDB database (resolved from the URI path when empty)")
	fs.StringVar(&o.AuthSource, namePrefix+"auth-source", o.AuthSource, "MongoDB auth source")
	fs.StringVar(&o.ReplicaSet, namePrefix+"replica-set", o.ReplicaSet, "MongoDB replica set")
	fs.BoolVar(&o.Direct, namePrefix+"direct", o.Direct, "MongoDB direct connection")
	fs.StringVar(&o.AppName, namePrefix+"app-name", o.AppName, "Application name reported to the server")
	fs.BoolVar(&o.WriteMajority, namePrefix+"write-majority", o.WriteMajority, "Request majority write concern in the connection string")
	fs.DurationVar(&o.ConnectTimeout, namePrefix+"connect-timeout", o.ConnectTimeout, "MongoDB connect timeout")
	fs.DurationVar(&o.SocketTimeout, namePrefix+"socket-timeout", o.SocketTimeout, "MongoDB socket timeout")
	fs.DurationVar(&o.ServerSelectionTimeout, namePrefix+"server-selection-timeout", o.ServerSelectionTimeout, "MongoDB server selection timeout")
	fs.DurationVar(&o.OperationTimeout, namePrefix+"operation-timeout", o.OperationTimeout, "Timeout applied to individual diagnostic operations")
}

var _ component.ConfigOptions = (*Options)(nil)
