package engine

import (
	"fmt"
	"runtime/debug"
)

// Failure is a captured handler failure. Structured failures come from
// the assertion helpers in pkg/expect; generic failures are recovered
// panics of any other value. Either way the failure is stored as data
// on the rule and only surfaces at teardown, in the owning test's
// context.
type Failure struct {
	// Message is the human-readable failure description.
	Message string

	// Stack is the goroutine stack captured where the failure was raised.
	Stack []byte

	// Value is the original panic value for generic failures; nil for
	// structured assertion failures.
	Value any
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}

// Structured reports whether the failure was raised through the
// assertion helpers rather than recovered from an arbitrary panic.
func (f *Failure) Structured() bool {
	return f.Value == nil
}

// NewFailure creates a structured assertion failure, capturing the
// current stack.
func NewFailure(format string, args ...any) *Failure {
	return &Failure{
		Message: fmt.Sprintf(format, args...),
		Stack:   debug.Stack(),
	}
}

// capturedFailure converts a recovered panic value into a Failure.
// A *Failure passes through unchanged; anything else becomes a generic
// failure preserving the value and the stack at the recovery point.
func capturedFailure(v any) *Failure {
	if f, ok := v.(*Failure); ok {
		return f
	}
	return &Failure{
		Message: fmt.Sprintf("handler panic: %v", v),
		Stack:   debug.Stack(),
		Value:   v,
	}
}
