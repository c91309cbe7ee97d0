package database

import (
	"database/sql"
	"fmt"
	"log"
)

// migrate applies pending migrations in order, tracking the applied
// version in PRAGMA user_version.
func migrate(conn *sql.DB) error {
	var current int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := applyMigration(conn, m); err != nil {
			return err
		}
		current = m.Version
	}
	return nil
}

func applyMigration(conn *sql.DB, m Migration) error {
	log.Printf("applying migration %d: %s", m.Version, m.Description)

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	if err := m.Up(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.Version, err)
	}

	// user_version cannot be set inside the transaction with
	// modernc/sqlite. A crash between commit and this point is fine:
	// the DDL is idempotent and the migration re-runs.
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("setting schema version %d: %w", m.Version, err)
	}
	return nil
}
