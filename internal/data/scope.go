package data

import (
	"context"
	"database/sql"
	"fmt"

	"go-redirector/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
)

// Compile-time interface check
var _ biz.StoreScope = (*storeScope)(nil)

type connKey struct{}

// storeScope pins one pooled connection to a resolution.
type storeScope struct {
	db  *sql.DB
	log *log.Helper
}

// NewStoreScope creates a new StoreScope.
func NewStoreScope(data *Data, logger log.Logger) biz.StoreScope {
	return &storeScope{
		db:  data.db,
		log: log.NewHelper(logger),
	}
}

// Do acquires a connection, exposes it to repositories through ctx and
// releases it when fn returns or panics. Nested calls reuse the outer connection.
func (s *storeScope) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ConnFromContext(ctx) != nil {
		return fn(ctx)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire store connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			s.log.WithContext(ctx).Errorf("release store connection failed: %v", err)
		}
	}()

	return fn(context.WithValue(ctx, connKey{}, conn))
}

// ConnFromContext retrieves the scoped connection from context.
func ConnFromContext(ctx context.Context) *sql.Conn {
	conn, _ := ctx.Value(connKey{}).(*sql.Conn)
	return conn
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// querier returns the scoped connection if there is one, otherwise the pool.
func (d *Data) querier(ctx context.Context) querier {
	if conn := ConnFromContext(ctx); conn != nil {
		return conn
	}
	return d.db
}
