package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported backend drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	RedisURL    string
	TTL         time.Duration
	// Migrate runs the table migration for SQL backends on open.
	Migrate bool
}

// Sweeper is implemented by backends that need explicit expiry cleanup.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Pinger is implemented by backends backed by an external service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handle bundles an opened backend with its cleanup function.
type Handle struct {
	Store Store
	close func() error
}

// Close releases backend resources.
func (h *Handle) Close() error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close()
}

// OpenDB opens the SQL database for a SQL driver.
func OpenDB(opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch opts.Driver {
	case DriverSQLite:
		return gorm.Open(sqlite.Open(opts.SQLitePath), cfg)
	case DriverPostgres:
		return gorm.Open(postgres.Open(opts.PostgresDSN), cfg)
	default:
		return nil, fmt.Errorf("store: driver %q is not a SQL driver", opts.Driver)
	}
}

// Open builds the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (*Handle, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return &Handle{Store: NewMemory(opts.TTL)}, nil
	case DriverSQLite, DriverPostgres:
		db, err := OpenDB(opts)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
		}
		if opts.Migrate {
			if err := Migrate(db); err != nil {
				return nil, fmt.Errorf("migrate session store: %w", err)
			}
		}
		closeFn := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return &Handle{Store: NewGorm(db, opts.TTL), close: closeFn}, nil
	case DriverRedis:
		client, err := ConnectRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		r := NewRedis(client, opts.TTL)
		return &Handle{Store: r, close: r.Close}, nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", opts.Driver)
	}
}
