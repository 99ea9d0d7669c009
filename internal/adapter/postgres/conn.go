package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/membership-backend/internal/config"
)

// NewConn opens the single connection an import run works over.
// It parses the DSN, applies the connect timeout and pings the server so a
// bad DSN fails before any file is read.
func NewConn(ctx context.Context, cfg config.DatabaseConfig) (*pgx.Conn, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	if cfg.ConnectTimeout > 0 {
		connCfg.ConnectTimeout = cfg.ConnectTimeout
	}

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return conn, nil
}
