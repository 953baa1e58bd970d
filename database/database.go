package database

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"discord-mirror/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// ValidateTable rejects table names that cannot be interpolated into a query
// as a bare identifier.
func ValidateTable(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", models.ErrInvalidTable, name)
	}
	return nil
}

// DriverName returns the configured driver, mysql when unset.
func DriverName(cfg models.DBConfig) string {
	if cfg.Driver == "" {
		return DriverMySQL
	}
	return cfg.Driver
}

// DSN builds the data source name for the configured driver.
func DSN(cfg models.DBConfig) (string, error) {
	switch DriverName(cfg) {
	case DriverMySQL:
		port := cfg.Port
		if port == 0 {
			port = 3306
		}
		c := mysql.NewConfig()
		c.User = cfg.User
		c.Passwd = cfg.Password
		c.Net = "tcp"
		c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
		c.DBName = cfg.Name
		c.ParseTime = true
		c.Loc = time.UTC
		c.Collation = "utf8mb4_unicode_ci"
		c.Params = map[string]string{"charset": "utf8mb4"}
		return c.FormatDSN(), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("sqlite3 database requires dbPath")
		}
		return cfg.Path + "?_loc=UTC", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open opens a connection for a single synchronization call. The caller
// closes it when the call is done.
func Open(ctx context.Context, cfg models.DBConfig) (*sqlx.DB, error) {
	driver := DriverName(cfg)
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		// Ensure the directory for the database file exists.
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// sqlite serializes writers; concurrent batch writes share one connection.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// tableOptions is appended to CREATE TABLE statements.
func tableOptions(driver string) string {
	if driver == DriverMySQL {
		return " DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci"
	}
	return ""
}

// datetimeType is the column type used for timestamps. go-sqlite3 only parses
// columns declared exactly as DATETIME back into time.Time.
func datetimeType(driver string) string {
	if driver == DriverMySQL {
		return "DATETIME(3)"
	}
	return "DATETIME"
}
