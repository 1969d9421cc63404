package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"assignment-tracker/internal/model"
)

// ExportSnapshot reads both collections in a single transaction so
// the dump is internally consistent.
func (s *SQLiteStore) ExportSnapshot(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := tx.QueryxContext(ctx,
			"SELECT id, name, emoji, slug, created_at FROM classes ORDER BY id")
		if err != nil {
			return fmt.Errorf("querying classes: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanClass(rows)
			if err != nil {
				return err
			}
			snap.Classes = append(snap.Classes, c)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		arows, err := tx.QueryxContext(ctx,
			"SELECT "+assignmentColumns+" FROM assignments ORDER BY id")
		if err != nil {
			return fmt.Errorf("querying assignments: %w", err)
		}
		defer arows.Close()
		for arows.Next() {
			a, err := scanAssignment(arows)
			if err != nil {
				return err
			}
			snap.Assignments = append(snap.Assignments, a)
		}
		return arows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("exporting snapshot: %w", err)
	}
	return &snap, nil
}

// ImportSnapshot replaces both collections with the snapshot's
// contents, preserving record ids, in a single transaction. Every
// assignment passes through the completion normalization rule, so an
// imported document cannot leave completed/completed_at out of sync.
func (s *SQLiteStore) ImportSnapshot(ctx context.Context, snap *model.Snapshot) error {
	now := time.Now().UTC()

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM assignments"); err != nil {
			return fmt.Errorf("clearing assignments: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM classes"); err != nil {
			return fmt.Errorf("clearing classes: %w", err)
		}

		classStmt, err := tx.PreparexContext(ctx, `
			INSERT INTO classes (id, name, emoji, slug, created_at)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing class insert: %w", err)
		}
		defer classStmt.Close()

		for _, c := range snap.Classes {
			if _, err := classStmt.ExecContext(ctx,
				c.ID, c.Name, c.Emoji, c.Slug, c.CreatedAt); err != nil {
				return fmt.Errorf("importing class %d: %w", c.ID, classConstraintErr(err))
			}
		}

		stmt, err := tx.PreparexContext(ctx, `
			INSERT INTO assignments (id, class_id, title, description, type, due_date, completed, created_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing assignment insert: %w", err)
		}
		defer stmt.Close()

		for _, a := range snap.Assignments {
			normalizeCompletion(&a, now)
			// Imported timestamps may carry arbitrary zone offsets;
			// stored text forms must compare against UTC-bound values.
			a.DueDate = toUTC(a.DueDate)
			a.CompletedAt = toUTC(a.CompletedAt)
			if _, err := stmt.ExecContext(ctx,
				a.ID, a.ClassID, a.Title, a.Description, a.Type,
				a.DueDate, boolToInt(a.Completed), a.CreatedAt.UTC(), a.CompletedAt); err != nil {
				return fmt.Errorf("importing assignment %d: %w", a.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("importing snapshot: %w", err)
	}
	return nil
}
