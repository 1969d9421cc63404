package store

import (
	"errors"
	"strings"
)

// Sentinel errors for the repository operations. Callers match them
// with errors.Is; validation failures are returned as
// validate.ValidationErrors instead.
var (
	// ErrStoreUnavailable means the underlying database could not be
	// opened or prepared. Fatal until the caller retries Open.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSchemaConflict means a migration could not satisfy a new
	// constraint against existing data. The migration is rolled back
	// and the data left untouched; there is no automatic recovery.
	ErrSchemaConflict = errors.New("schema migration conflict")

	// ErrDuplicateName means another class already holds the name.
	ErrDuplicateName = errors.New("class name already exists")

	// ErrDuplicateSlug means another class already holds the slug.
	ErrDuplicateSlug = errors.New("class slug already exists")

	// ErrNotFound means the referenced assignment does not exist.
	ErrNotFound = errors.New("assignment not found")
)

// classConstraintErr maps a sqlite UNIQUE violation on the classes
// table to the matching sentinel. The modernc driver exposes
// constraint failures only through the error text, in the form
// "UNIQUE constraint failed: table.column".
func classConstraintErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	switch {
	case strings.Contains(msg, "classes.name"):
		return ErrDuplicateName
	case strings.Contains(msg, "classes.slug"):
		return ErrDuplicateSlug
	}
	return err
}
