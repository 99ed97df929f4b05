package entities

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds. Every failing action returns an *ActionError matching
// exactly one of them.
var (
	ErrElementNotFound   = errors.New("element not found")
	ErrElementNotVisible = errors.New("element not visible")
	ErrActionTimeout     = errors.New("action timed out")
	ErrLocatorNotFound   = errors.New("locator not found in repository")
	ErrIndexOutOfRange   = errors.New("page index out of range")
	ErrConfig            = errors.New("configuration error")
	ErrDriver            = errors.New("driver error")
)

// ErrDriverTimeout is returned by driver adapters when a primitive exceeds its timeout
var ErrDriverTimeout = errors.New("driver timeout")

var kinds = []error{
	ErrElementNotFound,
	ErrElementNotVisible,
	ErrActionTimeout,
	ErrLocatorNotFound,
	ErrIndexOutOfRange,
	ErrConfig,
	ErrDriver,
}

// ActionError is the outcome of a failed action
type ActionError struct {
	Kind   error
	Op     string
	Target string
	Detail string
	Err    error
}

// NewActionError - builds an action error of the given kind
func NewActionError(kind error, op, target string, cause error) *ActionError {
	return &ActionError{Kind: kind, Op: op, Target: target, Err: cause}
}

func (e *ActionError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Target != "" {
		msg += fmt.Sprintf(" '%s'", e.Target)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ActionError) Is(target error) bool {
	return target == e.Kind
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// KindOf returns the error kind of err, or nil when err carries none
func KindOf(err error) error {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsTimeout reports whether err was caused by a timeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrDriverTimeout) ||
		errors.Is(err, ErrActionTimeout) ||
		errors.Is(err, context.DeadlineExceeded)
}
