package data

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"go-redirector/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(NewData, NewStoreScope, NewMappingRepo, NewClickRepo, NewGeoLocator)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Data holds the shared store pool and the optional redis client.
type Data struct {
	db     *sql.DB
	rdb    *redis.Client
	driver string
}

// NewData opens the mapping/analytics store and, when configured, redis.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	db, err := openDB(c.Database)
	if err != nil {
		return nil, nil, err
	}

	if c.Database.AutoMigrate {
		if err := migrate(context.Background(), db, c.Database.Driver); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	d := &Data{
		db:     db,
		rdb:    openRedis(c.Redis, helper),
		driver: c.Database.Driver,
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		if err := d.db.Close(); err != nil {
			helper.Error(err)
		}
		if d.rdb != nil {
			if err := d.rdb.Close(); err != nil {
				helper.Error(err)
			}
		}
	}

	return d, cleanup, nil
}

func openDB(c *conf.Data_Database) (*sql.DB, error) {
	switch c.Driver {
	case "postgres", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}

	db, err := sql.Open(c.Driver, c.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
		db.SetMaxIdleConns(c.MaxOpenConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, nil
}

// openRedis returns nil when redis is not configured or not reachable; the
// geo cache then degrades to a no-op.
func openRedis(c *conf.Data_Redis, helper *log.Helper) *redis.Client {
	if c == nil || c.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.Db,
		ReadTimeout:  c.ReadTimeout.AsDuration(),
		WriteTimeout: c.WriteTimeout.AsDuration(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		helper.Warnf("redis at %s not reachable, geo cache disabled: %v", c.Addr, err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// migrate applies the embedded schema for driver. Statements are idempotent.
func migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema, err := migrationsFS.ReadFile("migrations/" + driver + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for driver %q: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
