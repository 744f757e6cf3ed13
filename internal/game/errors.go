package game

import (
	"errors"
	"fmt"

	"grundy/internal/bible"
)

// ActionError carries a business-rule failure across an error boundary,
// such as a CLI command that has to exit non-zero.
type ActionError struct {
	Action string
	Code   bible.ErrorCode
	Reason string
}

func (e *ActionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Action, e.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Action, e.Reason, e.Code)
}

// Err converts a failure value into an error, or nil when f did not fail.
func Err(action string, f bible.Failure) error {
	if !f.Failed() {
		return nil
	}
	return &ActionError{Action: action, Code: f.Code, Reason: f.Reason}
}

// IsCode reports whether err is an ActionError with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code bible.ErrorCode) bool {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
