package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivefMatchesSentinel(t *testing.T) {
	sentinel := New(http.StatusUnprocessableEntity, "quota exceeded")
	derived := Derivef(sentinel, "insufficient quota: remaining %gh, requested %gh", 2.0, 3.0)

	assert.True(t, errors.Is(derived, sentinel))
	assert.Equal(t, sentinel.Code, derived.Code)
	assert.Equal(t, "insufficient quota: remaining 2h, requested 3h", derived.Error())

	other := New(http.StatusUnprocessableEntity, "something else")
	assert.False(t, errors.Is(derived, other))
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, http.StatusInternalServerError, "database unavailable")

	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, "database unavailable", wrapped.Error())
}
