package model

import "time"

// Conventional assignment type labels. The type column is free-form
// text; these are the values the forms offer, not an enum.
const (
	TypeHomework = "Homework"
	TypeProjects = "Projects"
	TypeExams    = "Exams"
	TypeOther    = "Other"
)

// Assignment is a trackable task owned by exactly one class. A nil
// DueDate means "no deadline". CompletedAt is set if and only if
// Completed is true; the store owns that invariant.
type Assignment struct {
	ID          int64      `json:"id" db:"id"`
	ClassID     int64      `json:"classId" db:"class_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	Type        string     `json:"type" db:"type"`
	DueDate     *time.Time `json:"dueDate,omitempty" db:"due_date"`
	Completed   bool       `json:"completed" db:"completed"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
}

// NewAssignment carries the caller-supplied fields for creating an
// assignment. ClassID existence is not checked at the storage layer;
// cascade delete is the enforcement point for referential integrity.
type NewAssignment struct {
	ClassID     int64      `json:"classId" validate:"gt=0"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	DueDate     *time.Time `json:"dueDate"`
}

// AssignmentPatch is a partial update. Nil pointer fields are left
// untouched. ClearDueDate removes the due date; it wins over DueDate
// if both are set.
type AssignmentPatch struct {
	ClassID      *int64
	Title        *string
	Description  *string
	Type         *string
	DueDate      *time.Time
	ClearDueDate bool
	Completed    *bool
}
