package ratelim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	assert.Equal(t, "203.0.113.7", clientIP("203.0.113.7:54321"))
	assert.Equal(t, "::1", clientIP("[::1]:8080"))
	// Anything unparseable falls back to the raw address.
	assert.Equal(t, "203.0.113.7", clientIP("203.0.113.7"))
}

func TestLimiterSharedAcrossPorts(t *testing.T) {
	rl := NewRateLimiter()

	a := rl.getLimiter(clientIP("203.0.113.7:1111"))
	b := rl.getLimiter(clientIP("203.0.113.7:2222"))
	assert.Same(t, a, b, "same host must share one bucket")

	other := rl.getLimiter(clientIP("203.0.113.8:1111"))
	assert.NotSame(t, a, other)
}
