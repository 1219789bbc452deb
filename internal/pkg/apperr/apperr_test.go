package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Wrap(ErrValidation, "bad id"), http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("gate: %w", ErrEntitlementDenied), http.StatusPaymentRequired},
		{Wrap(ErrNotFound, "deck not found"), http.StatusNotFound},
		{Wrap(ErrConflict, "deck already saved"), http.StatusConflict},
		{WithCause(ErrUpstream, "extraction failed", errors.New("timeout")), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

func TestMessageHidesCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := WithCause(ErrUpstream, "summarization failed", cause)

	assert.Equal(t, "summarization failed", Message(err))
	assert.Equal(t, "summarization failed: dial tcp: refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, "plain", Message(errors.New("plain")))
}
