package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// Client wraps mongo.Client together with the resolved logical database.
// It exposes the small diagnostic surface the probe service needs: a
// liveness ping, the server version, and collection enumeration.
//
// A Client is immutable after construction and safe for concurrent use;
// the process holds at most one instance, shared by every request
// handler.
//
// Example usage:
//
//	opts := mongodb.NewOptions()
//	opts.URI = os.Getenv(mongodb.EnvURI)
//
//	client, err := mongodb.New(opts)
//	if err != nil {
//	    log.Fatalf("failed to create MongoDB client: %v", err)
//	}
//	defer client.Close()
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	opts     *Options
}

// New creates a new MongoDB client from the provided options.
// It validates the options, builds the connection URI, and establishes a
// connection verified by an initial ping.
func New(opts *Options) (*Client, error) {
	return NewWithContext(context.Background(), opts)
}

// NewWithContext creates a new MongoDB client with context support.
// The context bounds connection establishment and the initial ping.
//
// Returns an error if:
// - Options validation fails
// - Connection to the MongoDB server fails
// - The initial ping fails
func NewWithContext(ctx context.Context, opts *Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("mongodb options cannot be nil")
	}

	if err := opts.check(); err != nil {
		return nil, fmt.Errorf("invalid mongodb options: %w", err)
	}

	uri := BuildURI(opts)

	clientOpts := mongoopts.Client().ApplyURI(uri)

	if opts.AppName != "" {
		clientOpts.SetAppName(opts.AppName)
	}
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}
	if opts.SocketTimeout > 0 {
		clientOpts.SetSocketTimeout(opts.SocketTimeout)
	}
	if opts.ServerSelectionTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.ServerSelectionTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Connect does not touch the network; the ping proves reachability.
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	var db *mongo.Database
	if opts.Database != "" {
		db = client.Database(opts.Database)
	}

	return &Client{
		client:   client,
		database: db,
		opts:     opts,
	}, nil
}

// Name returns the storage type identifier.
func (c *Client) Name() string {
	return "mongodb"
}

// Ping checks if the connection to MongoDB is alive.
func (c *Client) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("client is nil")
	}
	return c.client.Ping(ctx, nil)
}

// ServerVersion runs the buildInfo command against the admin database
// and returns the server version string. An empty version with a nil
// error is possible when the server omits the field.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("client is nil")
	}

	var info struct {
		Version string `bson:"version"`
	}
	res := c.client.Database("admin").RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}})
	if err := res.Decode(&info); err != nil {
		return "", fmt.Errorf("buildInfo command failed: %w", err)
	}
	return info.Version, nil
}

// CollectionNames enumerates the collection names of the resolved
// logical database.
func (c *Client) CollectionNames(ctx context.Context) ([]string, error) {
	if c.database == nil {
		return nil, fmt.Errorf("no database resolved, set the database option or include it in the URI path")
	}
	names, err := c.database.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections failed: %w", err)
	}
	return names, nil
}

// Database returns the resolved logical database.
// If no database was specified in options, this returns nil.
func (c *Client) Database() *mongo.Database {
	return c.database
}

// Raw returns the underlying mongo.Client for operations not exposed by
// the wrapper.
func (c *Client) Raw() *mongo.Client {
	return c.client
}

// Close closes the MongoDB connection gracefully.
// This method is idempotent and safe to call multiple times.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}
