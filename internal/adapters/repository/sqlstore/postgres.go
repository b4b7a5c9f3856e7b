package sqlstore

import (
	"context"
	"fmt"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresOptions defines the connection parameters for PostgreSQL.
type PostgresOptions struct {
	// Username is the PostgreSQL user to connect as
	Username string
	// Password is the password for the specified user
	Password string
	// Host is the server hostname or IP address
	Host string
	// Port is the server port number
	Port int
	// Database is the name of the database to connect to
	Database string
	// SslMode is the libpq sslmode, e.g. "disable" or "require"
	SslMode string
	// MaxOpenConnections caps the pool size; zero keeps the pgx default
	MaxOpenConnections int
	// ConnMaxLifetime is the maximum amount of time a connection may be reused
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum amount of time a connection may be idle
	ConnMaxIdleTime time.Duration
}

// ConnString renders the options as a libpq keyword/value string.
func (o PostgresOptions) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
		o.Host,
		o.Port,
		o.Username,
		o.Database,
		o.Password,
		o.SslMode)
}

// OpenPostgres connects a pgx pool and wraps it in a *sql.DB for goqu and
// goose. The pool is pinged before returning.
func OpenPostgres(ctx context.Context, o PostgresOptions, opts ...Option) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(o.ConnString())
	if err != nil {
		return nil, fmt.Errorf("could not parse pgxpool config: %w", err)
	}
	if o.MaxOpenConnections > 0 {
		cfg.MaxConns = int32(o.MaxOpenConnections) //nolint: gosec
	}
	if o.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = o.ConnMaxLifetime
	}
	if o.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = o.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not reach postgres at %s:%d: %w", o.Host, o.Port, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	s := New(sqlDB, DialectPostgres, opts...)
	s.pool = pool
	return s, nil
}
