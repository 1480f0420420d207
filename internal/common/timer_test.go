package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer(t *testing.T) {
	timer := NewNamedTimer("text_mask")

	time.Sleep(10 * time.Millisecond)

	duration := timer.Stop()
	assert.GreaterOrEqual(t, duration, 10*time.Millisecond)
	assert.Equal(t, duration, timer.Duration())

	str := timer.String()
	assert.Contains(t, str, "text_mask")
	assert.Contains(t, str, "ms")
}

func TestTimerUnnamed(t *testing.T) {
	timer := NewTimer()

	timer.Stop()
	assert.NotContains(t, timer.String(), ":")
}

func TestTimerDurationBeforeStop(t *testing.T) {
	timer := NewNamedTimer("idle")
	assert.Zero(t, timer.Duration())
}
