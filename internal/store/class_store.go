package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"assignment-tracker/internal/model"
)

// AddClass inserts a new class with CreatedAt set to now. Name and
// slug uniqueness violations surface distinctly as ErrDuplicateName
// and ErrDuplicateSlug.
func (s *SQLiteStore) AddClass(ctx context.Context, in model.NewClass) (*model.Class, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Emoji = strings.TrimSpace(in.Emoji)
	in.Slug = strings.TrimSpace(in.Slug)
	if err := s.valid.Struct(in); err != nil {
		return nil, err
	}

	c := model.Class{
		Name:      in.Name,
		Emoji:     in.Emoji,
		Slug:      in.Slug,
		CreatedAt: time.Now().UTC(),
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO classes (name, emoji, slug, created_at)
		VALUES (?, ?, ?, ?)`,
		c.Name, c.Emoji, c.Slug, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating class: %w", classConstraintErr(err))
	}

	c.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading class id: %w", err)
	}
	return &c, nil
}

// GetAllClasses retrieves every class. Order is not significant;
// callers re-sort for display.
func (s *SQLiteStore) GetAllClasses(ctx context.Context) ([]model.Class, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, name, emoji, slug, created_at FROM classes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying classes: %w", err)
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// GetClassBySlug looks a class up through the slug index. An absent
// slug is (nil, nil), not an error.
func (s *SQLiteStore) GetClassBySlug(ctx context.Context, slug string) (*model.Class, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT id, name, emoji, slug, created_at FROM classes WHERE slug = ?", slug)

	c, err := scanClass(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting class by slug %q: %w", slug, err)
	}
	return &c, nil
}

// IsSlugUnique reports whether no other class holds slug. A non-nil
// excludeID exempts that class, so saving a record back with its own
// slug does not self-conflict.
func (s *SQLiteStore) IsSlugUnique(ctx context.Context, slug string, excludeID *int64) (bool, error) {
	query := "SELECT COUNT(*) FROM classes WHERE slug = ?"
	args := []interface{}{slug}
	if excludeID != nil {
		query += " AND id != ?"
		args = append(args, *excludeID)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("checking slug uniqueness: %w", err)
	}
	return count == 0, nil
}

// DeleteClass removes the class and every assignment referencing it
// in one transaction, so a partial cascade can never commit. Deleting
// a nonexistent id succeeds as a no-op.
func (s *SQLiteStore) DeleteClass(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM assignments WHERE class_id = ?", id); err != nil {
			return fmt.Errorf("deleting assignments for class %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM classes WHERE id = ?", id); err != nil {
			return fmt.Errorf("deleting class %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cascade delete of class %d: %w", id, err)
	}
	return nil
}

// scanClass scans a class row from sqlx.Rows or sqlx.Row.
func scanClass(row interface{ Scan(dest ...interface{}) error }) (model.Class, error) {
	var c model.Class
	err := row.Scan(&c.ID, &c.Name, &c.Emoji, &c.Slug, &c.CreatedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.Class{}, fmt.Errorf("scanning class row: %w", err)
	}
	return c, err
}
