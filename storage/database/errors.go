package database

import (
	"database/sql"
	"fmt"
	"regexp"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/fmsedu/curriculum/core"
)

// postgres error codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	notNullViolation    = "23502"
	checkViolation      = "23514"
	invalidTextRepr     = "22P02"
)

// matches the column in details like `Key (subject_id)=(...) is not present in table "subjects".`
var keyDetailRegex = regexp.MustCompile(`Key \(([^)]+)\)=`)

func isNoRows(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}

// Err maps a store error of an insert, update or read onto the core error taxonomy.
// A foreign key violation there means the request referenced a missing row.
func Err(err error, entity, action string) error {
	return classify(err, entity, action, false)
}

// DeleteErr is Err for deletes, where a foreign key violation means the row is still referenced.
func DeleteErr(err error, entity, action string) error {
	return classify(err, entity, action, true)
}

func classify(err error, entity, action string, deleting bool) error {
	if err == nil {
		return nil
	}
	if isNoRows(err) {
		return core.NewNotFoundError(entity)
	}
	// already classified (e.g. returned from within a transaction)
	if core.IsNotFound(err) || core.IsConflict(err) || core.IsValidation(err) {
		return err
	}

	pqErr, ok := errors.Cause(err).(*pq.Error)
	if !ok {
		return errors.Wrap(err, action)
	}

	switch string(pqErr.Code) {
	case uniqueViolation:
		return core.NewConflictError(
			fmt.Errorf("%s already exists (%s)", entity, keyColumn(pqErr)), pqErr.Constraint)
	case foreignKeyViolation:
		if deleting {
			return core.NewConflictError(fmt.Errorf("%s is still in use", entity), pqErr.Constraint)
		}
		return core.NewValidationError(nil, core.FieldError{Field: keyColumn(pqErr), Error: "references a missing row"})
	case notNullViolation:
		return core.NewValidationError(nil, core.FieldError{Field: pqErr.Column, Error: "this field is required"})
	case checkViolation:
		return core.NewValidationError(nil, core.FieldError{Field: pqErr.Constraint, Error: "value not allowed"})
	case invalidTextRepr:
		return core.NewValidationError(errors.New(pqErr.Message))
	}
	return errors.Wrap(err, action)
}

// keyColumn finds the offending column of a key violation, falling back to the constraint name.
func keyColumn(pqErr *pq.Error) string {
	if m := keyDetailRegex.FindStringSubmatch(pqErr.Detail); len(m) == 2 {
		return m[1]
	}
	if pqErr.Column != "" {
		return pqErr.Column
	}
	return pqErr.Constraint
}
