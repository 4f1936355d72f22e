package chordset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies chord-set and bundle failures
type Kind int

const (
	KindValidation Kind = iota + 1
	KindInvalidChord
	KindDuplicateName
	KindPersistence
	KindExportPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidChord:
		return "invalid_chord"
	case KindDuplicateName:
		return "duplicate_name"
	case KindPersistence:
		return "persistence"
	case KindExportPrecondition:
		return "export_precondition"
	default:
		return "unknown"
	}
}

// ErrCancelled is returned when the user dismisses an export. Callers treat
// it as a no-op rather than a failure.
var ErrCancelled = errors.New("export cancelled")

// Error is a classified failure
type Error struct {
	Kind    Kind
	Message string
	Chord   string // offending symbol for KindInvalidChord
	Slot    int    // 1-based colliding slot for KindDuplicateName
	Missing []int  // 1-based slots for KindExportPrecondition
	Err     error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindInvalidChord:
		msg = fmt.Sprintf("invalid chord format: %s", e.Chord)
	case KindDuplicateName:
		msg = fmt.Sprintf("%s (already saved in slot %d)", e.Message, e.Slot)
	case KindExportPrecondition:
		nums := make([]string, len(e.Missing))
		for i, n := range e.Missing {
			nums[i] = strconv.Itoa(n)
		}
		msg = "bundle incomplete, missing slots: " + strings.Join(nums, ", ")
	default:
		msg = e.Message
	}
	if e.Err != nil && e.Kind != KindInvalidChord {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}
