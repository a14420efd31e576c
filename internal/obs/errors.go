package obs

import (
	"fmt"
	"log/slog"
)

// Error adds an operation name and structured attributes to a wrapped error,
// mirroring the teacher stack's wrap/log idiom without the stack-trace
// capture: avrocol's errors are deterministic schema/value mismatches, not
// the kind of deep-call-stack production incident that capture is for.
type Error struct {
	Op    string
	Err   error
	Attrs []slog.Attr
}

// Wrap creates an *Error tagging err with the operation that produced it.
func Wrap(op string, err error, attrs ...slog.Attr) *Error {
	if ae, ok := err.(*Error); ok {
		combined := append(append([]slog.Attr{}, ae.Attrs...), attrs...)
		return &Error{Op: op, Err: ae.Err, Attrs: combined}
	}
	return &Error{Op: op, Err: err, Attrs: attrs}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// LogError logs err through logger, pulling out *Error structure if present.
func LogError(logger *slog.Logger, err error) {
	if err == nil {
		return
	}
	ae, ok := err.(*Error)
	if !ok {
		logger.Error("an error occurred", slog.String("error", err.Error()))
		return
	}
	attrs := make([]any, 0, len(ae.Attrs)+2)
	attrs = append(attrs, slog.String("op", ae.Op))
	if ae.Err != nil {
		attrs = append(attrs, slog.String("cause", ae.Err.Error()))
	}
	for _, a := range ae.Attrs {
		attrs = append(attrs, a)
	}
	logger.Error("an error occurred", attrs...)
}
