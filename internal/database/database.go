package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/loginpage/internal/config"
	"github.com/surrealdb/surrealdb.go"
)

// Connect opens a SurrealDB connection, signs in with the root credentials
// from cfg and selects the configured namespace and database.
func Connect(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.GetDBUrl())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to surrealdb: %w", err)
	}

	if cfg.GetDBUser() != "" {
		authData := &surrealdb.Auth{
			Username: cfg.GetDBUser(),
			Password: cfg.GetDBPass(),
		}
		if _, err = db.SignIn(ctx, authData); err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("failed to sign in: %w", err)
		}
	}

	if err = db.Use(ctx, cfg.GetDBNs(), cfg.GetDBDb()); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/db: %w", err)
	}

	slog.Info("Connected to SurrealDB", "url", cfg.GetDBUrl(), "ns", cfg.GetDBNs(), "db", cfg.GetDBDb())
	return db, nil
}
