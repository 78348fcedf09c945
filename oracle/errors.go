package oracle

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// Kind classifies oracle failures.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUnavailable covers connectivity failures, timeouts and an open breaker.
	KindUnavailable
	KindAuth
	KindRateLimit
	// KindStatus is any other non-success HTTP status.
	KindStatus
	// KindProtocol is a reply that could not be turned into text.
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	case KindStatus:
		return "status"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// Error is a classified oracle failure.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	prefix := "oracle " + e.Kind.String()
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s %d", prefix, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindRateLimit:
		return true
	case KindUnavailable:
		return !errors.Is(e.Err, gobreaker.ErrOpenState) &&
			!errors.Is(e.Err, gobreaker.ErrTooManyRequests) &&
			!errors.Is(e.Err, context.Canceled)
	case KindStatus:
		return e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// Classify maps any error returned while talking to the API onto an *Error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var oe *Error
	if errors.As(err, &oe) {
		return oe
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return NewError(KindUnavailable, "circuit breaker rejected call", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return NewError(KindUnavailable, "request did not complete", err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fromStatus(apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fromStatus(reqErr.HTTPStatusCode, "request failed", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return NewError(KindUnavailable, "network error", err)
	}
	return NewError(KindUnknown, "unexpected error", err)
}

func fromStatus(status int, message string, err error) *Error {
	var kind Kind
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindAuth
	case status == http.StatusTooManyRequests:
		kind = KindRateLimit
	case status == 0:
		kind = KindUnavailable
	default:
		kind = KindStatus
	}
	e := NewError(kind, message, err)
	e.StatusCode = status
	return e
}
