package folio

import (
	"database/sql"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = sql.ErrNoRows

// ErrSlugTaken is returned when a create would violate slug uniqueness.
// The caller should change the title.
var ErrSlugTaken = fmt.Errorf("folio: slug already exists")

// ValidationError reports a missing or empty required field. It is
// returned before any storage write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("folio: invalid %s: %s", e.Field, e.Reason)
}

func errEmptyField(field string) error {
	return &ValidationError{Field: field, Reason: "must not be empty"}
}
