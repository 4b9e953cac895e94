// Package storage owns the document-store client handle and the
// identifier codec. The client is constructed once at process start and
// passed to whatever needs it; there is no package-level singleton.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sampleflix/sampleflix/internal/models"
	"github.com/sampleflix/sampleflix/internal/observability"
)

// Config holds the store connection settings.
type Config struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// Client wraps the driver client and the database handle for this service.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	logger   observability.Logger
}

// Connect establishes the store connection and verifies it with a ping.
func Connect(ctx context.Context, cfg Config, logger observability.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("storage: uri is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("storage: database name is required")
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("storage: connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("storage: ping: %w", err)
	}

	logger.Info("connected to document store", map[string]interface{}{
		"database": cfg.Database,
	})

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
		logger:   logger,
	}, nil
}

// Collection returns the collection backing the given entity kind.
func (c *Client) Collection(kind models.EntityKind) *mongo.Collection {
	return c.database.Collection(kind.Collection())
}

// Ping verifies the connection is alive. Used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes the connection. Called once at process shutdown.
func (c *Client) Disconnect(ctx context.Context) error {
	c.logger.Info("disconnecting from document store", nil)
	return c.client.Disconnect(ctx)
}
