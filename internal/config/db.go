package config

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"task_manager/internal/repository"
	"task_manager/internal/repository/postgres"
	"task_manager/internal/repository/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	Driver string

	// postgres
	DSN            string
	PoolSize       int
	MaxOverflow    int
	ConnectTimeout time.Duration
	// PoolTimeout bounds how long a request may wait on storage, pool included
	PoolTimeout time.Duration

	// sqlite
	Path string
}

// LoadDBConfig loads database configuration from environment variables
func LoadDBConfig() (*DBConfig, error) {
	cfg := &DBConfig{
		Driver:         getEnv("DB_DRIVER", DriverSQLite),
		Path:           getEnv("DB_PATH", "gestor_tareas.sqlite"),
		PoolSize:       getInt("DB_POOL_SIZE", 10),
		MaxOverflow:    getInt("DB_MAX_OVERFLOW", 20),
		ConnectTimeout: time.Duration(getInt("DB_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second,
		PoolTimeout:    time.Duration(getInt("DB_POOL_TIMEOUT", 30)) * time.Second,
	}

	switch cfg.Driver {
	case DriverSQLite:
		return cfg, nil
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use %s or %s)", cfg.Driver, DriverSQLite, DriverPostgres)
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.DSN = dsn
		return cfg, nil
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbUser, dbPassword),
		Host:     dbHost + ":" + dbPort,
		Path:     "/" + dbName,
		RawQuery: "sslmode=disable",
	}
	cfg.DSN = dsn.String()
	return cfg, nil
}

// OpenStore connects the configured engine
func OpenStore(ctx context.Context, cfg *DBConfig) (repository.Store, error) {
	switch cfg.Driver {
	case DriverPostgres:
		pool, err := ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return postgres.New(pool, cfg.DSN), nil
	default:
		return sqlite.Open(ctx, cfg.Path)
	}
}

// ConnectPostgres establishes a connection pool to the PostgreSQL database
func ConnectPostgres(ctx context.Context, cfg *DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres DSN: %w", err)
	}
	if maxConns := cfg.PoolSize + cfg.MaxOverflow; maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}
	if cfg.PoolSize > 0 {
		poolCfg.MinConns = int32(min(cfg.PoolSize, int(poolCfg.MaxConns)))
	}
	poolCfg.MaxConnLifetime = 5 * time.Minute
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	var pool *pgxpool.Pool

	// Retry connecting to the database a few times
	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			// Try to ping the database
			err = pool.Ping(ctx)
			if err == nil {
				log.Println("INFO: Successfully connected to PostgreSQL!")
				return pool, nil
			}
			pool.Close()
		}
		log.Printf("ERROR: Failed to connect to database (attempt %d/%d): %v. Retrying in %v...", i+1, maxRetries, err, retryInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}
