// Package mongo holds the document-store side of the service: the user
// credential store and the auth audit trail.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "catapi"
)

// Config captures the settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	// Timeout bounds connect + ping and server selection. Zero means defaultTimeout.
	Timeout time.Duration
	// MaxPoolSize caps driver connections; zero keeps the driver default.
	MaxPoolSize uint64
}

func (c Config) clientOptions() *options.ClientOptions {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := options.Client().
		ApplyURI(c.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(c.MaxPoolSize)
	}
	return opts
}

// Connect dials the cluster, pings it and returns the client with the catalog
// database selected. The process cannot serve accounts without it, so callers
// treat an error as fatal.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongo connect: empty URI")
	}
	if cfg.Database == "" {
		return nil, nil, fmt.Errorf("mongo connect: empty database name")
	}

	opts := cfg.clientOptions()
	connectCtx, cancel := context.WithTimeout(ctx, *opts.ServerSelectionTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}

	return client, client.Database(cfg.Database), nil
}
