package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	c := NewFixedClock(t0)
	assert.Equal(t, t0, c.Now())

	c.Advance(90 * time.Second)
	assert.Equal(t, int64(1_700_000_090), c.Now().Unix())

	c.Set(t0)
	assert.Equal(t, t0, c.Now())
}

func TestSystemClock(t *testing.T) {
	before := time.Now()
	now := NewSystemClock().Now()
	assert.False(t, now.Before(before))
}
