package app

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickRecorder struct {
	mu    sync.Mutex
	ticks []int
}

func (r *tickRecorder) onTick(_ uint64, remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, remaining)
}

func (r *tickRecorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ticks...)
}

func TestTimers_CountsDownToZero(t *testing.T) {
	timers := NewTimers(discardLogger())
	defer timers.Close()

	rec := &tickRecorder{}
	timers.Start("ROOM", Countdown{From: 3, Interval: 5 * time.Millisecond, Immediate: true, OnTick: rec.onTick})

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 4
	}, time.Second, time.Millisecond)

	assert.Equal(t, []int{3, 2, 1, 0}, rec.snapshot())
	require.Eventually(t, func() bool {
		return !timers.Active("ROOM")
	}, time.Second, time.Millisecond)
}

func TestTimers_DelayedSingleShot(t *testing.T) {
	timers := NewTimers(discardLogger())
	defer timers.Close()

	rec := &tickRecorder{}
	timers.Start("ROOM", Countdown{From: 0, Interval: 10 * time.Millisecond, OnTick: rec.onTick})

	assert.Empty(t, rec.snapshot())
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, []int{0}, rec.snapshot())
}

func TestTimers_RestartCancelsPrevious(t *testing.T) {
	timers := NewTimers(discardLogger())
	defer timers.Close()

	first := &tickRecorder{}
	second := &tickRecorder{}

	firstID := timers.Start("ROOM", Countdown{From: 5, Interval: 10 * time.Millisecond, OnTick: first.onTick})
	secondID := timers.Start("ROOM", Countdown{From: 5, Interval: 10 * time.Millisecond, OnTick: second.onTick})

	assert.NotEqual(t, firstID, secondID)
	assert.False(t, timers.IsCurrent("ROOM", firstID))
	assert.True(t, timers.IsCurrent("ROOM", secondID))

	require.Eventually(t, func() bool {
		return len(second.snapshot()) == 6
	}, time.Second, time.Millisecond)

	assert.Empty(t, first.snapshot())
	assert.Equal(t, []int{5, 4, 3, 2, 1, 0}, second.snapshot())
}

func TestTimers_StopDeliversNoMoreTicks(t *testing.T) {
	timers := NewTimers(discardLogger())
	defer timers.Close()

	var ticks atomic.Int32
	timers.Start("ROOM", Countdown{From: 100, Interval: 5 * time.Millisecond, OnTick: func(uint64, int) {
		ticks.Add(1)
	}})

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)

	assert.True(t, timers.Stop("ROOM"))
	assert.False(t, timers.Stop("ROOM"))
	stoppedAt := ticks.Load()

	time.Sleep(30 * time.Millisecond)
	// at most one tick already past its stop check may land
	assert.LessOrEqual(t, ticks.Load(), stoppedAt+1)
	assert.False(t, timers.Active("ROOM"))
}

func TestTimers_StopIf(t *testing.T) {
	timers := NewTimers(discardLogger())
	defer timers.Close()

	id := timers.Start("ROOM", Countdown{From: 10, Interval: time.Hour, OnTick: func(uint64, int) {}})

	assert.False(t, timers.StopIf("ROOM", id+1))
	assert.True(t, timers.Active("ROOM"))
	assert.True(t, timers.StopIf("ROOM", id))
	assert.False(t, timers.Active("ROOM"))
}

func TestTimers_RoomsAreIndependent(t *testing.T) {
	timers := NewTimers(discardLogger())
	defer timers.Close()

	a := &tickRecorder{}
	b := &tickRecorder{}
	timers.Start("A", Countdown{From: 2, Interval: 5 * time.Millisecond, Immediate: true, OnTick: a.onTick})
	timers.Start("B", Countdown{From: 2, Interval: 5 * time.Millisecond, Immediate: true, OnTick: b.onTick})

	assert.Equal(t, 2, timers.Count())
	require.Eventually(t, func() bool {
		return len(a.snapshot()) == 3 && len(b.snapshot()) == 3
	}, time.Second, time.Millisecond)
}

func TestTimers_CloseStopsEverything(t *testing.T) {
	timers := NewTimers(discardLogger())

	var ticks atomic.Int32
	for _, code := range []string{"A", "B", "C"} {
		timers.Start(code, Countdown{From: 100, Interval: time.Millisecond, OnTick: func(uint64, int) {
			ticks.Add(1)
		}})
	}

	timers.Close()
	after := ticks.Load()
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, after, ticks.Load())
	assert.Equal(t, 0, timers.Count())
	assert.Equal(t, uint64(0), timers.Start("A", Countdown{From: 1, OnTick: func(uint64, int) {}}))
}
