// Package mongodb owns the process-wide MongoDB client.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nimburion/catalog-api/pkg/observability/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	DefaultConnectTimeout   = 10 * time.Second
	DefaultOperationTimeout = 5 * time.Second

	healthCheckTimeout = 2 * time.Second
	disconnectTimeout  = 5 * time.Second
)

// ErrClosed is returned by operations on a closed adapter.
var ErrClosed = errors.New("mongodb adapter is closed")

// Config holds MongoDB adapter configuration. Zero timeouts take the defaults.
type Config struct {
	URL              string
	Database         string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

// Validate checks the required fields.
func (c Config) Validate() error {
	switch {
	case c.URL == "":
		return errors.New("mongodb URL is required")
	case c.Database == "":
		return errors.New("mongodb database is required")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = DefaultOperationTimeout
	}
	return c
}

// Adapter wraps the single client shared by every request. It is safe for
// concurrent use; after Close every operation fails with ErrClosed.
type Adapter struct {
	client   *mongo.Client
	database string
	timeout  time.Duration
	logger   logger.Logger
	closed   atomic.Bool
}

// NewAdapter connects and pings the primary. There is no retry: a failed
// ping disconnects the client and returns the error.
func NewAdapter(ctx context.Context, cfg Config, log logger.Logger) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URL).SetServerSelectionTimeout(cfg.ConnectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info("MongoDB connection established", "database", cfg.Database)
	return &Adapter{client: client, database: cfg.Database, timeout: cfg.OperationTimeout, logger: log}, nil
}

// DatabaseName returns the configured database name.
func (a *Adapter) DatabaseName() string { return a.database }

// Collection returns a handle on name in the configured database.
func (a *Adapter) Collection(name string) *mongo.Collection {
	return a.client.Database(a.database).Collection(name)
}

func (a *Adapter) Ping(ctx context.Context) error {
	if a.closed.Load() {
		return ErrClosed
	}
	return a.client.Ping(ctx, readpref.Primary())
}

// HealthCheck pings with a short deadline so readiness probes stay fast.
func (a *Adapter) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	err := a.Ping(ctx)
	if err == nil {
		return nil
	}
	a.logger.Error("MongoDB health check failed", "error", err)
	return fmt.Errorf("mongodb health check failed: %w", err)
}

// Close disconnects once; later calls return nil.
func (a *Adapter) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close mongodb connection: %w", err)
	}
	return nil
}

// FindOne decodes the first document matching filter into result.
// mongo.ErrNoDocuments is returned unwrapped when nothing matches.
func (a *Adapter) FindOne(ctx context.Context, collection string, filter interface{}, result interface{}) error {
	coll, ctx, done, err := a.begin(ctx, collection)
	if err != nil {
		return err
	}
	defer done()
	return coll.FindOne(ctx, filter).Decode(result)
}

// Find drains every document matching filter.
func (a *Adapter) Find(ctx context.Context, collection string, filter interface{}, opts ...*options.FindOptions) ([]bson.M, error) {
	coll, ctx, done, err := a.begin(ctx, collection)
	if err != nil {
		return nil, err
	}
	defer done()

	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// begin rejects closed adapters and bounds ctx by the operation timeout.
func (a *Adapter) begin(ctx context.Context, collection string) (*mongo.Collection, context.Context, context.CancelFunc, error) {
	if a.closed.Load() {
		return nil, nil, nil, ErrClosed
	}
	ctx, cancel := a.withOperationTimeout(ctx)
	return a.Collection(collection), ctx, cancel, nil
}

// withOperationTimeout leaves a caller deadline untouched.
func (a *Adapter) withOperationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || a.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}
