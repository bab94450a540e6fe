package neo4j

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
)

const defaultVerifyTimeout = 5 * time.Second

// Client wraps the Neo4j driver for reuse across repositories
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	closed   atomic.Bool
}

// Config holds Neo4j connection configuration
type Config struct {
	URI      string
	Username string
	Password string

	// Database selects a named database, empty means the server default
	Database string

	// MaxConnectionPoolSize overrides the driver default when positive
	MaxConnectionPoolSize int

	// VerifyTimeout bounds the connectivity check, default 5s
	VerifyTimeout time.Duration
}

// NewClient creates and verifies a Neo4j client connection
func NewClient(cfg Config) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *config.Config) {
			if cfg.MaxConnectionPoolSize > 0 {
				c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
			}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	timeout := cfg.VerifyTimeout
	if timeout <= 0 {
		timeout = defaultVerifyTimeout
	}

	// Verify connectivity
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	return &Client{driver: driver, database: cfg.Database}, nil
}

// Close closes the Neo4j driver connection. Only the first call reaches the driver.
func (c *Client) Close(ctx context.Context) error {
	if c.driver == nil || !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.driver.Close(ctx)
}

// NewSession creates a new Neo4j session bound to the configured database
func (c *Client) NewSession(ctx context.Context, cfg neo4j.SessionConfig) neo4j.SessionWithContext {
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = c.database
	}
	return c.driver.NewSession(ctx, cfg)
}

// ExecuteRead runs query in a managed read transaction and collects every record
// before the transaction ends
func (c *Client) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	return c.execute(ctx, neo4j.AccessModeRead, query, params)
}

// ExecuteWrite runs query in a managed write transaction and collects every record
func (c *Client) ExecuteWrite(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	return c.execute(ctx, neo4j.AccessModeWrite, query, params)
}

func (c *Client) execute(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]any) ([]*neo4j.Record, error) {
	session := c.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode})
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	}

	var (
		out any
		err error
	)
	if mode == neo4j.AccessModeWrite {
		out, err = session.ExecuteWrite(ctx, work)
	} else {
		out, err = session.ExecuteRead(ctx, work)
	}
	if err != nil {
		return nil, err
	}

	records, _ := out.([]*neo4j.Record)
	return records, nil
}
