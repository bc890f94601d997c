package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benvon/deerdiary/internal/models"
)

// OpenFunc dials the document store
type OpenFunc func(ctx context.Context, databaseURL string) (*DB, error)

// dialTimeout bounds one shared dial, independent of the caller that started it
const dialTimeout = 15 * time.Second

// ErrConnectorClosed is returned by DB after Close
var ErrConnectorClosed = errors.New("connector closed")

// Connector hands out one lazily opened connection pool. The first caller starts
// the dial; concurrent first callers wait on that same dial, each until its own
// context ends. A failed dial is not cached, so the next call tries again.
type Connector struct {
	url     string
	open    OpenFunc
	timeout time.Duration

	mu       sync.Mutex
	db       *DB
	inflight *dialCall
	closed   bool
}

// dialCall is one in-flight dial. done is closed once db and err are set.
type dialCall struct {
	done chan struct{}
	db   *DB
	err  error
}

// NewConnector creates a connector for databaseURL. open defaults to NewContext.
func NewConnector(databaseURL string, open OpenFunc) *Connector {
	if open == nil {
		open = NewContext
	}
	return &Connector{url: databaseURL, open: open, timeout: dialTimeout}
}

// DB returns the cached pool, dialing on first use
func (c *Connector) DB(ctx context.Context) (*DB, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrConnectorClosed
	}
	if c.db != nil {
		db := c.db
		c.mu.Unlock()
		return db, nil
	}
	call := c.inflight
	if call == nil {
		call = &dialCall{done: make(chan struct{})}
		c.inflight = call
		go c.dial(context.WithoutCancel(ctx), call)
	}
	c.mu.Unlock()

	select {
	case <-call.done:
		if call.err != nil {
			return nil, fmt.Errorf("failed to connect to document store: %w", call.err)
		}
		return call.db, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to connect to document store: %w", ctx.Err())
	}
}

// dial runs one open and publishes the result to every waiter on call
func (c *Connector) dial(ctx context.Context, call *dialCall) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	db, err := c.open(ctx, c.url)

	c.mu.Lock()
	c.inflight = nil
	if err == nil && c.closed {
		err = errors.Join(ErrConnectorClosed, db.Close())
		db = nil
	}
	if err == nil {
		c.db = db
	}
	call.db, call.err = db, err
	c.mu.Unlock()
	close(call.done)
}

// Notes returns a note repository on the cached pool
func (c *Connector) Notes(ctx context.Context) (NoteRepositoryInterface, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, err
	}
	return NewNoteRepository(db), nil
}

// Summaries returns a tag summary repository on the cached pool
func (c *Connector) Summaries(ctx context.Context) (TagSummaryRepositoryInterface, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, err
	}
	return NewTagSummaryRepository(db), nil
}

// Ping dials if needed and verifies the pool answers
func (c *Connector) Ping(ctx context.Context) error {
	db, err := c.DB(ctx)
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Connected reports whether a pool has been opened
func (c *Connector) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db != nil
}

// Close closes the cached pool if one was opened. A dial still in flight is
// closed when it completes.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// GetCorsConfig reads the CORS settings row, dialing if needed
func (c *Connector) GetCorsConfig(ctx context.Context) (*models.CorsConfig, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, err
	}
	return NewCorsConfigRepository(db).Get(ctx)
}

// GetRatelimitConfig reads the rate limit settings row, dialing if needed
func (c *Connector) GetRatelimitConfig(ctx context.Context) (*models.RatelimitConfig, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, err
	}
	return NewRatelimitConfigRepository(db).Get(ctx)
}

// SetRatelimitConfig writes the rate limit settings row, dialing if needed
func (c *Connector) SetRatelimitConfig(ctx context.Context, cfg *models.RatelimitConfig) error {
	db, err := c.DB(ctx)
	if err != nil {
		return err
	}
	return NewRatelimitConfigRepository(db).Set(ctx, cfg)
}
