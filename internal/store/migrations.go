package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"

	"assignment-tracker/internal/validate"
)

// migration holds a single schema migration: its target version, the
// SQL to run, and an optional Go step run in the same transaction for
// work SQL alone cannot express.
type migration struct {
	version int
	sql     string
	fn      func(tx *sqlx.Tx) error
}

// migrations is the ordered list of schema migrations. Only forward
// migrations exist; versions are sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS classes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_classes_name ON classes(name);

CREATE TABLE IF NOT EXISTS assignments (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	class_id    INTEGER NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	type        TEXT NOT NULL DEFAULT '',
	due_date    DATETIME,
	completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assignments_class_id ON assignments(class_id);
CREATE INDEX IF NOT EXISTS idx_assignments_due_date ON assignments(due_date);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE classes ADD COLUMN emoji TEXT NOT NULL DEFAULT '';
ALTER TABLE classes ADD COLUMN slug TEXT NOT NULL DEFAULT '';
ALTER TABLE assignments ADD COLUMN completed_at DATETIME;

INSERT INTO schema_version (version) VALUES (2);
`,
		fn: backfillSlugs,
	},
}

// backfillSlugs derives a slug for every class that predates the slug
// column, then creates the unique index. Existing data is never
// deleted; if two derived slugs collide, the index creation fails and
// the whole migration rolls back as ErrSchemaConflict.
func backfillSlugs(tx *sqlx.Tx) error {
	type row struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	var rows []row
	if err := tx.Select(&rows, "SELECT id, name FROM classes WHERE slug = ''"); err != nil {
		return fmt.Errorf("reading classes for slug backfill: %w", err)
	}

	for _, r := range rows {
		slug := slugify(r.Name)
		if !validate.ValidSlug(slug) {
			slug = fmt.Sprintf("class-%d", r.ID)
		}
		if _, err := tx.Exec("UPDATE classes SET slug = ? WHERE id = ?", slug, r.ID); err != nil {
			return fmt.Errorf("backfilling slug for class %d: %w", r.ID, err)
		}
	}

	if _, err := tx.Exec("CREATE UNIQUE INDEX idx_classes_slug ON classes(slug)"); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return errors.Join(ErrSchemaConflict, err)
		}
		return fmt.Errorf("creating slug index: %w", err)
	}

	return nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases the name and collapses every non-alphanumeric
// run into a single hyphen.
func slugify(name string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if len(s) > 100 {
		s = strings.Trim(s[:100], "-")
	}
	return s
}
