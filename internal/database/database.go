package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/booktracker/internal/entities"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type Database struct {
	DB      *gorm.DB
	Dialect Dialect
}

// Options tune how the connection is opened.
type Options struct {
	LogLevel logger.LogLevel
	Logger   *zap.Logger
}

// DialectFor picks the driver from the connection string. postgres:// and
// postgresql:// URLs and key=value DSNs with a host select PostgreSQL;
// everything else is treated as a SQLite path.
func DialectFor(url string) Dialect {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DialectPostgres
	case strings.Contains(url, "host=") && strings.Contains(url, "dbname="):
		return DialectPostgres
	default:
		return DialectSQLite
	}
}

func dialector(url string) gorm.Dialector {
	if DialectFor(url) == DialectPostgres {
		return postgres.Open(url)
	}
	return sqlite.Open(url)
}

// NewDatabase opens the connection and migrates the schema.
func NewDatabase(url string, opts Options) (*Database, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	db, err := gorm.Open(dialector(url), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db, Dialect: DialectFor(url)}

	if err := database.Migrate(); err != nil {
		_ = database.Close()
		return nil, err
	}

	opts.Logger.Info("Database initialized", zap.String("dialect", string(database.Dialect)))

	return database, nil
}

// Migrate creates or upgrades the tables owned by the application.
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(&entities.Book{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Tables lists the tables visible through the connection.
func (d *Database) Tables() ([]string, error) {
	return d.DB.Migrator().GetTables()
}

// Ping checks that the database is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SQLDB exposes the pooled connection for components that speak database/sql.
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.DB.DB()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
