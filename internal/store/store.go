package store

import (
	"context"

	"assignment-tracker/internal/model"
)

// Store defines the persistence interface the UI layer calls. Every
// operation either succeeds fully or returns an error; multi-step
// mutations (cascade delete, completion toggle, snapshot import) are
// single transactions, so partial state is never observable.
type Store interface {
	// === Class repository ===

	AddClass(ctx context.Context, in model.NewClass) (*model.Class, error)
	GetAllClasses(ctx context.Context) ([]model.Class, error)
	// GetClassBySlug returns (nil, nil) when no class holds the slug.
	GetClassBySlug(ctx context.Context, slug string) (*model.Class, error)
	// IsSlugUnique ignores the class identified by excludeID, so a
	// slug can be re-saved onto the record that already owns it.
	IsSlugUnique(ctx context.Context, slug string, excludeID *int64) (bool, error)
	// DeleteClass removes the class and all of its assignments in one
	// transaction. Deleting a nonexistent id is a no-op success.
	DeleteClass(ctx context.Context, id int64) error

	// === Assignment repository ===

	AddAssignment(ctx context.Context, in model.NewAssignment) (*model.Assignment, error)
	GetAssignmentsByClass(ctx context.Context, classID int64) ([]model.Assignment, error)
	UpdateAssignment(ctx context.Context, id int64, patch model.AssignmentPatch) (*model.Assignment, error)
	// DeleteAssignment returns ErrNotFound for a nonexistent id,
	// unlike DeleteClass. The UI relies on that asymmetry.
	DeleteAssignment(ctx context.Context, id int64) error

	// === Derived views ===

	GetAllIncompleteAssignments(ctx context.Context) ([]model.Assignment, error)
	GetAllCompletedAssignments(ctx context.Context) ([]model.Assignment, error)
	GetAllUpcomingAssignments(ctx context.Context) ([]model.Assignment, error)

	// === Bulk dump/load ===

	ExportSnapshot(ctx context.Context) (*model.Snapshot, error)
	ImportSnapshot(ctx context.Context, snap *model.Snapshot) error

	Close() error
}
