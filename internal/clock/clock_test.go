package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestFakeFiresInDueOrder(t *testing.T) {
	c := NewFake(epoch)
	var fired []string

	c.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "late") })
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "early") })
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "early-2") })

	c.Advance(200 * time.Millisecond)
	assert.Equal(t, []string{"early", "early-2"}, fired)
	assert.Equal(t, 1, c.Pending())

	c.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"early", "early-2", "late"}, fired)
	assert.Equal(t, epoch.Add(300*time.Millisecond), c.Now())
}

func TestFakeNowDuringCallback(t *testing.T) {
	c := NewFake(epoch)
	var at time.Time
	c.AfterFunc(time.Second, func() { at = c.Now() })

	c.Advance(time.Minute)
	assert.Equal(t, epoch.Add(time.Second), at)
	assert.Equal(t, epoch.Add(time.Minute), c.Now())
}

func TestFakeStop(t *testing.T) {
	c := NewFake(epoch)
	ran := false
	timer := c.AfterFunc(time.Second, func() { ran = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	c.Advance(time.Hour)
	assert.False(t, ran)
	assert.Zero(t, c.Pending())
}

func TestFakeStopAfterFire(t *testing.T) {
	c := NewFake(epoch)
	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)
	assert.False(t, timer.Stop())
}

func TestFakeCallbackSchedules(t *testing.T) {
	c := NewFake(epoch)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			c.AfterFunc(time.Second, tick)
		}
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(10 * time.Second)
	assert.Equal(t, 3, count)
}

func TestRealAfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}
