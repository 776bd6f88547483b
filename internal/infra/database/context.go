package database

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrContextDisposed is returned by queries issued through a closed SchoolContext.
var ErrContextDisposed = errors.New("school context has been disposed")

// ContextFactory creates SchoolContext instances over a shared connection pool.
type ContextFactory struct {
	db       *gorm.DB
	provider Provider
	dsn      string
	log      *zap.Logger
}

// NewContextFactory wraps an opened gorm.DB.
func NewContextFactory(db *gorm.DB, provider Provider, dsn string, log *zap.Logger) *ContextFactory {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContextFactory{db: db, provider: provider, dsn: dsn, log: log}
}

// Provider returns the configured database engine.
func (f *ContextFactory) Provider() Provider {
	return f.provider
}

// DB returns the pool-level handle. Prefer Conn inside a request.
func (f *ContextFactory) DB() *gorm.DB {
	return f.db
}

// Create returns a new SchoolContext bound to ctx. Callers must Close it.
func (f *ContextFactory) Create(ctx context.Context) *SchoolContext {
	return &SchoolContext{
		db:      f.db.WithContext(ctx),
		factory: f,
	}
}

// WithScope runs fn with a fresh SchoolContext that is closed when fn returns,
// including on panic. The context passed to fn carries the SchoolContext.
func (f *ContextFactory) WithScope(ctx context.Context, fn func(ctx context.Context, sc *SchoolContext) error) error {
	sc := f.Create(ctx)
	defer sc.Close()
	return fn(WithSchoolContext(ctx, sc), sc)
}

// Conn returns the handle of the SchoolContext bound to ctx, or a pool-level
// handle when ctx carries none.
func (f *ContextFactory) Conn(ctx context.Context) *gorm.DB {
	if sc := FromContext(ctx); sc != nil {
		return sc.DB()
	}
	return f.db.WithContext(ctx)
}

// Ping verifies the database is reachable.
func (f *ContextFactory) Ping(ctx context.Context) error {
	sqlDB, err := f.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (f *ContextFactory) Close() error {
	sqlDB, err := f.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SchoolContext is a unit of work over the school database. It is not safe to
// use after Close.
type SchoolContext struct {
	db      *gorm.DB
	factory *ContextFactory
	closed  atomic.Bool
}

// DB returns the query handle. After Close every query fails with ErrContextDisposed.
func (c *SchoolContext) DB() *gorm.DB {
	if c.closed.Load() {
		tx := c.db.Session(&gorm.Session{NewDB: true})
		_ = tx.AddError(ErrContextDisposed)
		return tx
	}
	return c.db
}

// Close releases the context. Calling Close more than once is a no-op.
func (c *SchoolContext) Close() {
	c.closed.Store(true)
}

// Closed reports whether Close has been called.
func (c *SchoolContext) Closed() bool {
	return c.closed.Load()
}

type contextKey struct{}

// WithSchoolContext returns a copy of ctx carrying sc.
func WithSchoolContext(ctx context.Context, sc *SchoolContext) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

// FromContext returns the SchoolContext carried by ctx, or nil.
func FromContext(ctx context.Context) *SchoolContext {
	if ctx == nil {
		return nil
	}
	sc, _ := ctx.Value(contextKey{}).(*SchoolContext)
	return sc
}
