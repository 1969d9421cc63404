package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"assignment-tracker/internal/config"
	"assignment-tracker/internal/validate"
)

// SQLiteStore implements the Store interface using a local SQLite
// database. The handle is owned by its creator and passed explicitly;
// there is no process-wide singleton.
type SQLiteStore struct {
	db    *sqlx.DB
	valid *validate.Validator
}

var _ Store = (*SQLiteStore)(nil)

// Open creates the database directory if needed, opens the store at
// the configured path, and applies the configured busy timeout.
func Open(cfg *config.Config) (*SQLiteStore, error) {
	dir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory %s: %w",
			dir, errors.Join(ErrStoreUnavailable, err))
	}

	s, err := NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if cfg.Database.BusyTimeoutMS > 0 {
		query := fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.Database.BusyTimeoutMS)
		if _, err := s.db.Exec(query); err != nil {
			s.db.Close()
			return nil, fmt.Errorf("setting busy timeout: %w",
				errors.Join(ErrStoreUnavailable, err))
		}
	}

	return s, nil
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations. Open
// failures are ErrStoreUnavailable; a migration that cannot satisfy
// its constraints against existing data is ErrSchemaConflict.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", errors.Join(ErrStoreUnavailable, err))
	}

	// SQLite allows a single writer; one connection also keeps
	// :memory: databases coherent across the pool.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", errors.Join(ErrStoreUnavailable, err))
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", errors.Join(ErrStoreUnavailable, err))
	}

	s := &SQLiteStore{db: db, valid: validate.New()}
	if err := s.runMigrations(migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order, each in its own transaction so a
// failed migration leaves the previous version fully intact.
func (s *SQLiteStore) runMigrations(ms []migration) error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range ms {
		if m.version <= currentVersion {
			continue
		}
		if err := s.applyMigration(m); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func (s *SQLiteStore) applyMigration(m migration) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return err
	}
	if m.fn != nil {
		if err := m.fn(tx); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// withTx runs fn inside a transaction, committing on nil and rolling
// back otherwise.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
