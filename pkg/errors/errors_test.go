package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMallErrorMessage(t *testing.T) {
	err := NewInsufficientData("South", "needs 5 malls, has 3")
	assert.Equal(t, "[insufficient_data] South: needs 5 malls, has 3", err.Error())

	wrapped := NewNetwork("wikipedia", "fetch failed", errors.New("connection refused"))
	assert.Equal(t, "[network] wikipedia: fetch failed - connection refused", wrapped.Error())

	cfg := NewConfiguration("PICK_MIN must be positive", nil)
	assert.Equal(t, "[configuration] PICK_MIN must be positive", cfg.Error())
}

func TestMallErrorIs(t *testing.T) {
	insufficient := NewInsufficientData("", "no region found")
	assert.True(t, errors.Is(insufficient, ErrInsufficientData))
	assert.False(t, errors.Is(insufficient, ErrInvalidPrecondition))

	tooSmall := NewInvalidPrecondition("South", "region too small", ErrInsufficientData)
	assert.True(t, errors.Is(tooSmall, ErrInvalidPrecondition))
	assert.True(t, errors.Is(tooSmall, ErrInsufficientData))

	unknown := NewInvalidPrecondition("Mars", "unknown region", nil)
	assert.True(t, errors.Is(unknown, ErrInvalidPrecondition))
	assert.False(t, errors.Is(unknown, ErrInsufficientData))

	// Matching survives fmt wrapping
	outer := fmt.Errorf("sample: %w", tooSmall)
	assert.True(t, errors.Is(outer, ErrInvalidPrecondition))
	assert.Equal(t, ErrorTypeInvalidPrecondition, TypeOf(outer))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, NewNetwork("src", "msg", nil).IsRetryable())
	assert.False(t, NewRateLimit("src", time.Minute).IsRetryable())
	assert.False(t, NewParsing("src", "msg", nil).IsRetryable())
	assert.False(t, NewInsufficientData("East", "msg").IsRetryable())
}
