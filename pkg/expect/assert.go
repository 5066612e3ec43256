package expect

import (
	"reflect"

	"github.com/getmockd/expectd/pkg/engine"
)

// Failure is a structured assertion failure raised inside a handler.
// It is captured by the endpoint, answered to the client as HTTP 500,
// and re-surfaced in the owning test at verification time.
type Failure = engine.Failure

// Failf raises a structured assertion failure from inside a handler.
func Failf(format string, args ...any) {
	panic(engine.NewFailure(format, args...))
}

// NoError raises a failure if err is non-nil.
func NoError(err error) {
	if err != nil {
		panic(engine.NewFailure("unexpected error: %v", err))
	}
}

// Equal raises a failure if want and got are not deeply equal.
func Equal(want, got any) {
	if !reflect.DeepEqual(want, got) {
		panic(engine.NewFailure("not equal:\nwant: %#v\ngot:  %#v", want, got))
	}
}

// True raises a failure with the given message if cond is false.
func True(cond bool, format string, args ...any) {
	if !cond {
		Failf(format, args...)
	}
}
