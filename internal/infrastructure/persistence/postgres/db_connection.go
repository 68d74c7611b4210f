// Package postgres provides the relational store of the LoginPage service.
// PostgreSQL is the production engine (pgx connection pool behind gorm);
// SQLite serves local development and tests through the same repositories.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/imRyuukii/LoginPage/internal/config"
	"github.com/imRyuukii/LoginPage/internal/domain/models"
	"github.com/imRyuukii/LoginPage/pkg/errors"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConnection manages the gorm handle and the dialect of the configured engine.
type DBConnection struct {
	db      *gorm.DB
	sqlDB   *sql.DB
	pool    *pgxpool.Pool
	dialect Dialect
	config  *config.DatabaseConfig
	logger  logger.Logger
}

// NewDBConnection opens the configured database and performs an initial ping.
func NewDBConnection(ctx context.Context, cfg *config.DatabaseConfig, log logger.Logger) (*DBConnection, error) {
	if cfg == nil {
		return nil, errors.ErrInternal("database configuration is missing")
	}
	log = log.WithComponent("database")

	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, errors.ErrInternal("invalid database configuration").WithCause(err)
	}

	conn := &DBConnection{dialect: dialect, config: cfg, logger: log}
	switch cfg.Driver {
	case DriverPostgres:
		err = conn.openPostgres(ctx)
	case DriverSQLite:
		err = conn.openSQLite()
	}
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	log.Info(ctx, "Database connection initialized",
		logger.String("driver", cfg.Driver),
	)
	return conn, nil
}

func (c *DBConnection) openPostgres(ctx context.Context) error {
	c.logger.Info(ctx, "Initializing PostgreSQL connection pool",
		logger.String("host", c.config.Host),
		logger.Int("port", c.config.Port),
		logger.String("database", c.config.Database),
		logger.Int("max_conns", c.config.MaxConns),
		logger.Int("min_conns", c.config.MinConns),
	)

	poolConfig, err := pgxpool.ParseConfig(c.config.GetDSN())
	if err != nil {
		c.logger.Error(ctx, "Failed to parse database connection string", err)
		return errors.ErrUnavailable("database connection failed").WithCause(err)
	}
	poolConfig.MaxConns = int32(c.config.MaxConns)
	poolConfig.MinConns = int32(c.config.MinConns)
	poolConfig.MaxConnLifetime = time.Duration(c.config.MaxConnLifetime) * time.Minute
	poolConfig.MaxConnIdleTime = time.Duration(c.config.MaxConnIdleTime) * time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		c.logger.Error(ctx, "Failed to create database connection pool", err)
		return errors.ErrUnavailable("database connection failed").WithCause(err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	if err != nil {
		pool.Close()
		return errors.ErrUnavailable("database connection failed").WithCause(err)
	}

	c.pool, c.sqlDB, c.db = pool, sqlDB, db
	return nil
}

func (c *DBConnection) openSQLite() error {
	db, err := OpenSQLite(c.config.Path)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.ErrUnavailable("database connection failed").WithCause(err)
	}
	c.sqlDB, c.db = sqlDB, db
	return nil
}

// OpenSQLite opens a gorm handle on a SQLite file or DSN.
// A single connection serialises writers, which SQLite needs anyway.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, errors.ErrUnavailable("database connection failed").WithCause(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.ErrUnavailable("database connection failed").WithCause(err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}
}

// DB returns the gorm handle used by the repositories.
func (c *DBConnection) DB() *gorm.DB {
	return c.db
}

// Dialect returns the SQL dialect of the open engine.
func (c *DBConnection) Dialect() Dialect {
	return c.dialect
}

// Migrate creates or updates the schema.
func (c *DBConnection) Migrate(ctx context.Context) error {
	return Migrate(ctx, c.db)
}

// Migrate creates or updates the users and rate_limits tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&models.User{}, &models.AttemptRecord{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping verifies database connectivity and responsiveness.
func (c *DBConnection) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	startTime := time.Now()
	if err := c.sqlDB.PingContext(pingCtx); err != nil {
		c.logger.Error(ctx, "Database ping failed", err)
		return errors.ErrUnavailable("database unreachable").WithCause(err)
	}

	latency := time.Since(startTime)
	if latency > 100*time.Millisecond {
		c.logger.Warn(ctx, "High database latency detected",
			logger.Int64("latency_ms", latency.Milliseconds()),
			logger.Int("threshold_ms", 100),
		)
	}
	return nil
}

// HealthCheck pings the database and reports connection statistics.
func (c *DBConnection) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	if err := c.Ping(ctx); err != nil {
		return nil, err
	}

	stats := c.sqlDB.Stats()
	info := map[string]interface{}{
		"status":           "healthy",
		"driver":           c.dialect.Name(),
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
	}
	if c.pool != nil {
		poolStats := c.pool.Stat()
		info["acquired_connections"] = poolStats.AcquiredConns()
		info["max_connections"] = poolStats.MaxConns()
		if poolStats.IdleConns() == 0 && poolStats.TotalConns() >= poolStats.MaxConns() {
			c.logger.Warn(ctx, "Connection pool exhausted",
				logger.Int("max_conns", int(poolStats.MaxConns())),
			)
			info["warning"] = "connection_pool_near_limit"
		}
	}
	return info, nil
}

// Close releases the connections.
func (c *DBConnection) Close() {
	if c.sqlDB != nil {
		_ = c.sqlDB.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
	c.logger.Info(context.Background(), "Database connection closed")
}
