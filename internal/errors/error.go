package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrEmptyAuth      = errors.New("missing authorization")
	ErrEmptySubject   = errors.New("missing subject")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrOrderNotFound  = errors.New("order not found")
	ErrUnknownStatus  = errors.New("unknown order status")
	ErrRemoteOrderAPI = errors.New("remote order api unavailable")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
