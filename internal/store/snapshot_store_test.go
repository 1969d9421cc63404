package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assignment-tracker/internal/model"
	"assignment-tracker/tests/testutil"
)

func TestSnapshotRoundTrip(t *testing.T) {
	src := testutil.NewTestStore(t)
	ctx := context.Background()

	c := mustAddClass(t, src, "Bio 101", "bio-101")
	due := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	a, err := src.AddAssignment(ctx, model.NewAssignment{
		ClassID: c.ID, Title: "Lab Report", Type: model.TypeHomework, DueDate: &due,
	})
	require.NoError(t, err)
	_, err = src.UpdateAssignment(ctx, a.ID, model.AssignmentPatch{Completed: ptr(true)})
	require.NoError(t, err)

	snap, err := src.ExportSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Classes, 1)
	require.Len(t, snap.Assignments, 1)

	// The snapshot is the JSON document the import/export collaborator
	// moves around; make sure it survives serialization.
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded model.Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	dst := testutil.NewTestStore(t)
	require.NoError(t, dst.ImportSnapshot(ctx, &decoded))

	classes, err := dst.GetAllClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, c.ID, classes[0].ID)
	assert.Equal(t, "bio-101", classes[0].Slug)

	completed, err := dst.GetAllCompletedAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, a.ID, completed[0].ID)
	require.NotNil(t, completed[0].CompletedAt)
}

func TestImportSnapshotRepairsCompletion(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)
	stale := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	snap := &model.Snapshot{
		Classes: []model.Class{
			{ID: 1, Name: "Bio 101", Emoji: "🧪", Slug: "bio-101", CreatedAt: created},
		},
		Assignments: []model.Assignment{
			// Completed without a timestamp: must be stamped on import.
			{ID: 1, ClassID: 1, Title: "Lab Report", Type: model.TypeHomework, Completed: true, CreatedAt: created},
			// Open with a stale timestamp: must be cleared on import.
			{ID: 2, ClassID: 1, Title: "Worksheet", Type: model.TypeHomework, Completed: false, CreatedAt: created, CompletedAt: &stale},
		},
	}

	require.NoError(t, s.ImportSnapshot(ctx, snap))

	completed, err := s.GetAllCompletedAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.NotNil(t, completed[0].CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *completed[0].CompletedAt, 5*time.Second)

	incomplete, err := s.GetAllIncompleteAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, incomplete, 1)
	assert.Nil(t, incomplete[0].CompletedAt)
}

func TestImportSnapshotReplacesExistingData(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	old := mustAddClass(t, s, "Old Class", "old-class")
	_, err := s.AddAssignment(ctx, model.NewAssignment{ClassID: old.ID, Title: "Old work", Type: model.TypeOther})
	require.NoError(t, err)

	snap := &model.Snapshot{
		Classes: []model.Class{
			{ID: 7, Name: "New Class", Emoji: "✨", Slug: "new-class", CreatedAt: time.Now().UTC()},
		},
	}
	require.NoError(t, s.ImportSnapshot(ctx, snap))

	classes, err := s.GetAllClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, int64(7), classes[0].ID)

	incomplete, err := s.GetAllIncompleteAssignments(ctx)
	require.NoError(t, err)
	assert.Empty(t, incomplete)
}

func TestImportSnapshotIsAtomic(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	keep := mustAddClass(t, s, "Keep Me", "keep-me")

	// Duplicate slugs inside the snapshot violate the unique index on
	// the second insert; the whole import must roll back.
	now := time.Now().UTC()
	snap := &model.Snapshot{
		Classes: []model.Class{
			{ID: 1, Name: "A", Emoji: "🅰️", Slug: "dup", CreatedAt: now},
			{ID: 2, Name: "B", Emoji: "🅱️", Slug: "dup", CreatedAt: now},
		},
	}
	require.Error(t, s.ImportSnapshot(ctx, snap))

	classes, err := s.GetAllClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, keep.ID, classes[0].ID)
}
