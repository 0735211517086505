package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies ledger errors so callers can map them to a response.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	}
	return "unknown"
}

// Error is returned by every ledger operation that fails for a reason the caller can act on.
// Msg is human readable and safe to show to users.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrMatchNotFound       = &Error{Kind: KindNotFound, Msg: "match not found"}
	ErrRoundNotFound       = &Error{Kind: KindNotFound, Msg: "round not found"}
	ErrAlreadyFinished     = &Error{Kind: KindConflict, Msg: "match already finished"}
	ErrNoRounds            = &Error{Kind: KindConflict, Msg: "no rounds to undo"}
	ErrThresholdNotReached = &Error{Kind: KindConflict, Msg: "no team has reached the threshold yet"}
	ErrMatchFinished       = &Error{Kind: KindConflict, Msg: "cannot delete rounds from a finished match"}
	// ErrConflict is returned by a Store when a concurrent write won the race.
	ErrConflict = &Error{Kind: KindTransient, Msg: "match was modified concurrently"}
)

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func transientError(err error) *Error {
	return &Error{Kind: KindTransient, Msg: "match is busy, please retry", Err: err}
}

// KindOf returns the Kind of err, or 0 if err is not a ledger error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Message returns the user-facing message of a ledger error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
func IsTransient(err error) bool  { return KindOf(err) == KindTransient }
