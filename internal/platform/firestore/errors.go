package firestore

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error records which catalog read failed and the gRPC code Firestore reported for it.
type Error struct {
	Op   string
	Code codes.Code
	err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// NotFound reports whether the collection or document does not exist.
func (e *Error) NotFound() bool { return e.Code == codes.NotFound }

// Retryable reports whether the failure looks like a transient backend outage.
func (e *Error) Retryable() bool {
	switch e.Code {
	case codes.Unavailable, codes.ResourceExhausted, codes.Internal, codes.Aborted:
		return true
	}
	return false
}

// WrapError annotates err with op. Context cancellations pass through as the context errors and
// errors that already carry an annotation are returned as is.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	code := status.Code(err)
	switch code {
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}

	var annotated *Error
	if errors.As(err, &annotated) {
		return err
	}
	return &Error{Op: op, Code: code, err: err}
}
