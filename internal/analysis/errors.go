package analysis

import (
	"fmt"

	"github.com/gofrs/uuid/v5"
)

// InsufficientDataError means the history is too small for a model to say anything useful.
// Callers should show nothing rather than fail the request.
type InsufficientDataError struct {
	Operation string
	Reason    string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: %s", e.Operation, e.Reason)
}

// InvalidCategoryError means a requested category has no matching history.
// It unwraps to an InsufficientDataError.
type InvalidCategoryError struct {
	Operation string
	Category  string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("%s: no history for category %q", e.Operation, e.Category)
}

func (e *InvalidCategoryError) Unwrap() error {
	return &InsufficientDataError{
		Operation: e.Operation,
		Reason:    fmt.Sprintf("no history for category %q", e.Category),
	}
}

// LoggingFailure is reported when persisting a detected anomaly fails.
// It is logged, never returned from detection.
type LoggingFailure struct {
	TransactionID uuid.UUID
	Cause         error
}

func (e *LoggingFailure) Error() string {
	return fmt.Sprintf("log anomaly for transaction %s: %v", e.TransactionID, e.Cause)
}

func (e *LoggingFailure) Unwrap() error {
	return e.Cause
}

// MalformedInputError is returned for input that cannot be analysed without guessing.
type MalformedInputError struct {
	TransactionID uuid.UUID
	Field         string
	Reason        string
}

func (e *MalformedInputError) Error() string {
	if e.TransactionID == uuid.Nil {
		return fmt.Sprintf("malformed input: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed transaction %s: %s: %s", e.TransactionID, e.Field, e.Reason)
}
