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

const assignmentColumns = `id, class_id, title, description, type, due_date, completed, created_at, completed_at`

// dueDateAsc sorts ascending by due date with undated assignments
// after all dated ones; ties keep insertion order.
const dueDateAsc = "ORDER BY due_date IS NULL, due_date ASC, id ASC"

// AddAssignment inserts a new assignment with Completed=false and
// CreatedAt set to now. ClassID existence is not verified here; the
// original store allows dangling references and the cascade delete in
// DeleteClass is the only referential enforcement.
func (s *SQLiteStore) AddAssignment(ctx context.Context, in model.NewAssignment) (*model.Assignment, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.valid.Struct(in); err != nil {
		return nil, err
	}

	a := model.Assignment{
		ClassID:     in.ClassID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		DueDate:     toUTC(in.DueDate),
		Completed:   false,
		CreatedAt:   time.Now().UTC(),
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO assignments (class_id, title, description, type, due_date, completed, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ClassID, a.Title, a.Description, a.Type, a.DueDate,
		boolToInt(a.Completed), a.CreatedAt, a.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating assignment: %w", err)
	}

	a.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading assignment id: %w", err)
	}
	return &a, nil
}

// GetAssignmentsByClass retrieves every assignment owned by classID,
// due date ascending with undated ones last.
func (s *SQLiteStore) GetAssignmentsByClass(ctx context.Context, classID int64) ([]model.Assignment, error) {
	return s.queryAssignments(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE class_id = ? "+dueDateAsc,
		classID)
}

// UpdateAssignment merges patch onto the stored record inside a
// single transaction and returns the result. All completion stamping
// goes through applyPatch, so the completed/completed_at invariant
// holds for every caller.
func (s *SQLiteStore) UpdateAssignment(ctx context.Context, id int64, patch model.AssignmentPatch) (*model.Assignment, error) {
	var a model.Assignment

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		row := tx.QueryRowxContext(ctx,
			"SELECT "+assignmentColumns+" FROM assignments WHERE id = ?", id)
		var err error
		a, err = scanAssignment(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		applyPatch(&a, patch, time.Now().UTC())

		_, err = tx.ExecContext(ctx, `
			UPDATE assignments SET
				class_id = ?, title = ?, description = ?, type = ?,
				due_date = ?, completed = ?, completed_at = ?
			WHERE id = ?`,
			a.ClassID, a.Title, a.Description, a.Type,
			a.DueDate, boolToInt(a.Completed), a.CompletedAt,
			a.ID,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating assignment %d: %w", id, err)
	}
	return &a, nil
}

// DeleteAssignment removes the record. A nonexistent id is
// ErrNotFound, deliberately unlike the idempotent class delete.
func (s *SQLiteStore) DeleteAssignment(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting assignment %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting assignment %d: %w", id, ErrNotFound)
	}
	return nil
}

// GetAllIncompleteAssignments retrieves every open assignment, due
// date ascending with undated ones last.
func (s *SQLiteStore) GetAllIncompleteAssignments(ctx context.Context) ([]model.Assignment, error) {
	return s.queryAssignments(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE completed = 0 "+dueDateAsc)
}

// GetAllCompletedAssignments retrieves every completed assignment,
// most recently completed first. A completed record missing its
// completion timestamp sorts after all dated ones.
func (s *SQLiteStore) GetAllCompletedAssignments(ctx context.Context) ([]model.Assignment, error) {
	return s.queryAssignments(ctx,
		"SELECT "+assignmentColumns+` FROM assignments WHERE completed = 1
		 ORDER BY completed_at IS NULL, completed_at DESC, id ASC`)
}

// GetAllUpcomingAssignments retrieves open, dated assignments whose
// due date is at or after now, soonest first. This comparison is on
// the full timestamp; calendar-date bucketing lives in the dates
// package.
func (s *SQLiteStore) GetAllUpcomingAssignments(ctx context.Context) ([]model.Assignment, error) {
	return s.queryAssignments(ctx,
		"SELECT "+assignmentColumns+` FROM assignments
		 WHERE completed = 0 AND due_date IS NOT NULL AND due_date >= ?
		 ORDER BY due_date ASC, id ASC`,
		time.Now().UTC())
}

// applyPatch merges patch onto a. The completion rule: a false→true
// transition stamps CompletedAt, setting false clears it, and a patch
// without Completed leaves it untouched.
func applyPatch(a *model.Assignment, patch model.AssignmentPatch, now time.Time) {
	if patch.ClassID != nil {
		a.ClassID = *patch.ClassID
	}
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.ClearDueDate {
		a.DueDate = nil
	} else if patch.DueDate != nil {
		due := patch.DueDate.UTC()
		a.DueDate = &due
	}
	if patch.Completed != nil {
		if *patch.Completed && !a.Completed {
			stamped := now
			a.CompletedAt = &stamped
		}
		if !*patch.Completed {
			a.CompletedAt = nil
		}
		a.Completed = *patch.Completed
	}
}

// normalizeCompletion repairs the completed/completed_at pair on a
// record arriving from outside the update path (bulk import): a
// completed record without a timestamp gets stamped, an open record
// loses any stale timestamp.
func normalizeCompletion(a *model.Assignment, now time.Time) {
	if !a.Completed {
		a.CompletedAt = nil
		return
	}
	if a.CompletedAt == nil {
		stamped := now
		a.CompletedAt = &stamped
	}
}

// toUTC normalizes an optional timestamp so its stored text form
// compares correctly against UTC-bound values in due-date ORDER BY
// and range predicates.
func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (s *SQLiteStore) queryAssignments(ctx context.Context, query string, args ...interface{}) ([]model.Assignment, error) {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// scanAssignment scans an assignment row from sqlx.Rows or sqlx.Row.
func scanAssignment(row interface{ Scan(dest ...interface{}) error }) (model.Assignment, error) {
	var (
		a            model.Assignment
		dueDate      *time.Time
		completedAt  *time.Time
		completedInt int
	)

	err := row.Scan(
		&a.ID, &a.ClassID, &a.Title, &a.Description, &a.Type,
		&dueDate, &completedInt, &a.CreatedAt, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Assignment{}, err
		}
		return model.Assignment{}, fmt.Errorf("scanning assignment row: %w", err)
	}

	a.DueDate = dueDate
	a.CompletedAt = completedAt
	a.Completed = completedInt != 0

	return a, nil
}
