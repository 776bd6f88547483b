package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/contoso/university/internal/model"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists the entities of the school schema in creation order.
func Models() []any {
	return []any{&model.Student{}, &model.Course{}, &model.Enrollment{}}
}

// EnsureCreated creates the database and its schema if they do not exist.
// It reports whether anything was created. An existing schema is left as is.
func (c *SchoolContext) EnsureCreated(ctx context.Context) (bool, error) {
	if c.Closed() {
		return false, ErrContextDisposed
	}

	created, err := c.factory.ensureDatabase(ctx)
	if err != nil {
		return false, err
	}

	db := c.DB().WithContext(ctx)
	if db.Migrator().HasTable(&model.Student{}) {
		return created, nil
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return false, fmt.Errorf("create schema: %w", err)
	}
	c.factory.log.Info("database schema created", zap.String("provider", string(c.factory.provider)))
	return true, nil
}

func (f *ContextFactory) ensureDatabase(ctx context.Context) (bool, error) {
	switch f.provider {
	case ProviderPostgres:
		return ensurePostgresDatabase(ctx, f.dsn)
	case ProviderSQLServer:
		return ensureSQLServerDatabase(ctx, f.dsn)
	default:
		// SQLite creates the file on first open.
		return false, nil
	}
}

func ensurePostgresDatabase(ctx context.Context, dsn string) (bool, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return false, fmt.Errorf("parse connection string: %w", err)
	}
	name := cfg.Database
	if name == "" || name == "postgres" {
		return false, nil
	}

	cfg.Database = "postgres"
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return false, fmt.Errorf("connect to maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check database %q: %w", name, err)
	}
	if exists {
		return false, nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return false, fmt.Errorf("create database %q: %w", name, err)
	}
	return true, nil
}

func ensureSQLServerDatabase(ctx context.Context, dsn string) (bool, error) {
	masterDSN, name, err := sqlServerMasterDSN(dsn)
	if err != nil {
		return false, err
	}
	if name == "" || strings.EqualFold(name, "master") {
		return false, nil
	}

	db, err := gorm.Open(sqlserver.Open(masterDSN), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return false, fmt.Errorf("connect to master database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	var id *int
	if err := db.WithContext(ctx).Raw("SELECT DB_ID(?)", name).Scan(&id).Error; err != nil {
		return false, fmt.Errorf("check database %q: %w", name, err)
	}
	if id != nil {
		return false, nil
	}

	if err := db.WithContext(ctx).Exec("CREATE DATABASE " + quoteSQLServerName(name)).Error; err != nil {
		return false, fmt.Errorf("create database %q: %w", name, err)
	}
	return true, nil
}

// sqlServerMasterDSN rewrites dsn to target the master database and returns
// the database it originally named. Both URL (sqlserver://...?database=x) and
// ADO (Server=...;Database=x) forms are accepted.
func sqlServerMasterDSN(dsn string) (string, string, error) {
	if strings.HasPrefix(strings.ToLower(dsn), "sqlserver://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", "", fmt.Errorf("parse connection string: %w", err)
		}
		q := u.Query()
		name := q.Get("database")
		q.Set("database", "master")
		u.RawQuery = q.Encode()
		return u.String(), name, nil
	}

	var name string
	parts := strings.Split(dsn, ";")
	for i, part := range parts {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "database", "initial catalog":
			name = strings.TrimSpace(value)
			parts[i] = strings.TrimSpace(key) + "=master"
		}
	}
	if name == "" && !strings.Contains(dsn, "=") {
		return "", "", errors.New("parse connection string: unrecognized sqlserver format")
	}
	return strings.Join(parts, ";"), name, nil
}

func quoteSQLServerName(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}
