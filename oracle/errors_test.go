package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      Kind
		retryable bool
	}{
		{"breaker open", gobreaker.ErrOpenState, KindUnavailable, false},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), KindUnavailable, true},
		{"canceled", context.Canceled, KindUnavailable, false},
		{"unauthorized", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, KindAuth, false},
		{"forbidden", &openai.RequestError{HTTPStatusCode: http.StatusForbidden}, KindAuth, false},
		{"rate limited", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, KindRateLimit, true},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusServiceUnavailable}, KindStatus, true},
		{"bad request", &openai.APIError{HTTPStatusCode: http.StatusBadRequest}, KindStatus, false},
		{"other", errors.New("boom"), KindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.retryable, got.Retryable())
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyKeepsExistingError(t *testing.T) {
	orig := NewError(KindProtocol, "no choices", nil)
	wrapped := fmt.Errorf("attempt 1: %w", orig)
	assert.Same(t, orig, Classify(wrapped))
	assert.Nil(t, Classify(nil))
}

func TestErrorMessage(t *testing.T) {
	e := fromStatus(http.StatusBadGateway, "bad gateway", errors.New("upstream"))
	assert.Equal(t, "oracle status 502 (bad gateway): upstream", e.Error())
	assert.Equal(t, "oracle auth: missing API key", NewError(KindAuth, "missing API key", nil).Error())
}

func TestApology(t *testing.T) {
	assert.Equal(t, apologies["ko"][KindAuth], Apology("ko", NewError(KindAuth, "", nil)))
	assert.Equal(t, apologies["en"][KindRateLimit], Apology("fr", NewError(KindRateLimit, "", nil)))
	assert.Equal(t, apologies["en"][KindUnknown], Apology("en", NewError(KindProtocol, "", nil)))
	assert.Equal(t, apologies["en"][KindUnknown], Apology("en", nil))

	status := NewError(KindStatus, "", nil)
	status.StatusCode = 418
	assert.Equal(t, "The language model service returned an error (code: 418).", Apology("en", status))
}
