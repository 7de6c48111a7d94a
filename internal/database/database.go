package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"rekraft-backend/internal/config"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
)

// DSN builds a pgx connection string from cfg.
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:   cfg.Database,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	if cfg.Schema != "" {
		q.Set("search_path", cfg.Schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Open connects to Postgres through the pgx stdlib driver wrapped with
// otelsql so every query produces a span.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := otelsql.Open("pgx", DSN(cfg),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqlx.NewDb(db, "pgx"), nil
}

// Health reports connection pool statistics and reachability.
func Health(ctx context.Context, db *sqlx.DB) map[string]string {
	stats := make(map[string]string)

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	s := db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = fmt.Sprint(s.OpenConnections)
	stats["in_use"] = fmt.Sprint(s.InUse)
	stats["idle"] = fmt.Sprint(s.Idle)
	stats["wait_count"] = fmt.Sprint(s.WaitCount)
	return stats
}
