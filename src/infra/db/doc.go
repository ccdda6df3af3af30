// Package db provides database connection and schema management.
//
// This package is responsible for:
//   - PostgreSQL connection pool initialization (pgxpool)
//   - Connection health checks
//   - Optional statement tracing through slog (pgx tracelog)
//   - Embedded schema migrations (goose)
//
// Example usage:
//
//	pg, err := db.New(ctx, cfg.Database, log)
//	if err != nil {
//	    return err
//	}
//	defer pg.Close()
//	if err := db.Migrate(ctx, pg.SQLDB(), log); err != nil {
//	    return err
//	}
package db
