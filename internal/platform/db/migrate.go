package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the goose migrations found in dir of fsys against the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir string) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer func() {
		_ = sqlDB.Close()
	}()

	goose.SetBaseFS(fsys)
	// Each directory keeps its own version table so both schemas can share a database in development.
	goose.SetTableName("goose_" + dir + "_version")
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("platform/db: goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("platform/db: migrate %s: %w", dir, err)
	}
	return nil
}
