package model

// Snapshot is the bulk dump/load document: every class and every
// assignment, with their stored ids. It is what the import/export
// collaborator reads and writes as JSON.
type Snapshot struct {
	Classes     []Class      `json:"classes"`
	Assignments []Assignment `json:"assignments"`
}
