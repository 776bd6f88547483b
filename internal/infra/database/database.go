// Package database registers the school database and hands out per-scope
// SchoolContext instances.
package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/contoso/university/internal/infra/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Provider names a supported database engine.
type Provider string

const (
	ProviderPostgres  Provider = "postgres"
	ProviderSQLite    Provider = "sqlite"
	ProviderSQLServer Provider = "sqlserver"
)

// ErrUnsupportedProvider is returned for an unknown database.provider value.
var ErrUnsupportedProvider = errors.New("unsupported database provider")

// ParseProvider parses a provider name. Empty means postgres.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case "", ProviderPostgres:
		return ProviderPostgres, nil
	case ProviderSQLite, ProviderSQLServer:
		return p, nil
	case "mssql":
		return ProviderSQLServer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
	}
}

// Dialector returns the gorm dialector for provider and dsn.
func Dialector(provider Provider, dsn string) (gorm.Dialector, error) {
	switch provider {
	case ProviderPostgres:
		return postgres.Open(dsn), nil
	case ProviderSQLite:
		return sqlite.Open(dsn), nil
	case ProviderSQLServer:
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}

// New registers the school database described by cfg. No connection is made
// until the first query.
func New(cfg *config.Config, log *zap.Logger) (*ContextFactory, error) {
	dsn := strings.TrimSpace(cfg.ConnectionStrings.DefaultConnection)
	if dsn == "" {
		return nil, config.ErrMissingConnectionString
	}

	provider, err := ParseProvider(cfg.Database.Provider)
	if err != nil {
		return nil, err
	}

	dialector, err := Dialector(provider, dsn)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if cfg.Database.LogQueries {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(logLevel),
		NamingStrategy:       schema.NamingStrategy{SingularTable: true},
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if provider == ProviderSQLite && strings.Contains(dsn, ":memory:") {
		// Every connection to a private in-memory database sees its own copy.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)
	}

	if log == nil {
		log = zap.NewNop()
	}
	log.Info("database registered", zap.String("provider", string(provider)))

	return NewContextFactory(db, provider, dsn, log), nil
}
