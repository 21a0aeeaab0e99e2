package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldowns(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := newCooldowns(12 * time.Hour)
	c.now = func() time.Time { return now }

	// Checking never starts the window; a failed command attempt keeps the
	// user off cooldown.
	assert.Zero(t, c.remaining("user"))
	assert.Zero(t, c.remaining("user"))

	c.record("user")
	assert.Equal(t, 12*time.Hour, c.remaining("user"))
	assert.Zero(t, c.remaining("other"))

	now = now.Add(5 * time.Hour)
	assert.Equal(t, 7*time.Hour, c.remaining("user"))

	now = now.Add(7 * time.Hour)
	assert.Zero(t, c.remaining("user"))
}
