// internal/lostfound/fault.go
package lostfound

import (
	"errors"
	"fmt"
)

// Kind discriminates the recoverable failure classes of the core. Callers
// branch on Kind rather than matching message strings.
type Kind string

const (
	KindNotFound          Kind = "NotFound"
	KindInvalidTransition Kind = "InvalidTransition"
	KindAlreadyMatched    Kind = "AlreadyMatched"
	KindDependencyExists  Kind = "DependencyExists"
	KindPolicyViolation   Kind = "PolicyViolation"
	KindUnauthorized      Kind = "Unauthorized"
	KindConflict          Kind = "Conflict"
)

// Fault is a structured, recoverable failure. None of these are fatal to the
// process; handlers translate Kind into a response status.
type Fault struct {
	Kind Kind
	Op   string
	Msg  string
}

func (f *Fault) Error() string {
	if f.Msg == "" {
		return fmt.Sprintf("%s: %s", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", f.Op, f.Kind, f.Msg)
}

// Faultf builds a Fault with a formatted message.
func Faultf(kind Kind, op, format string, args ...interface{}) *Fault {
	return &Fault{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from an error chain, or "" if the error
// is not a Fault.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
