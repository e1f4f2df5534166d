package db

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"biblioteca-backend/migrations"
)

// Migrate applies all pending embedded migrations. Safe to run on every
// startup.
func Migrate(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("mysql"); err != nil {
		return err
	}
	return goose.UpContext(ctx, conn, ".")
}
