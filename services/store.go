package services

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// isUniqueViolation reports whether a store write failed on a unique index.
// PocketBase surfaces index violations as field validation errors carrying the
// validation_not_unique code; a raw SQLite error carries the UNIQUE text.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			var vErr validation.Error
			if errors.As(fieldErr, &vErr) && vErr.Code() == "validation_not_unique" {
				return true
			}
		}
	}

	return strings.Contains(err.Error(), "UNIQUE")
}
