package app

import (
	"log/slog"
	"sync"
	"time"
)

// Countdown describes a scheduled task that ticks From, From-1, ... down to 0,
// one tick per Interval. With Immediate set the first tick fires at once.
type Countdown struct {
	From      int
	Interval  time.Duration
	Immediate bool
	OnTick    func(taskID uint64, remaining int)
}

// timerTask is one running countdown
type timerTask struct {
	id   uint64
	stop chan struct{}
}

// Timers holds at most one running countdown per room code
type Timers struct {
	tasks  map[string]*timerTask
	mu     sync.Mutex
	nextID uint64
	closed bool
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewTimers creates an empty timer table
func NewTimers(logger *slog.Logger) *Timers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Timers{
		tasks:  make(map[string]*timerTask),
		logger: logger,
	}
}

// Start cancels any countdown running for code and starts cd in its place.
// It returns the id of the new task, or 0 after Close.
func (t *Timers) Start(code string, cd Countdown) uint64 {
	if cd.Interval <= 0 {
		cd.Interval = time.Second
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0
	}

	if prev, ok := t.tasks[code]; ok {
		close(prev.stop)
		t.logger.Debug("timer replaced", "roomCode", code, "taskID", prev.id)
	}

	t.nextID++
	task := &timerTask{id: t.nextID, stop: make(chan struct{})}
	t.tasks[code] = task

	t.wg.Add(1)
	go t.run(code, task, cd)

	return task.id
}

// Stop cancels the countdown for code; no further ticks are delivered
func (t *Timers) Stop(code string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[code]
	if !ok {
		return false
	}

	close(task.stop)
	delete(t.tasks, code)
	return true
}

// StopIf cancels the countdown for code only if it is still task id
func (t *Timers) StopIf(code string, id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[code]
	if !ok || task.id != id {
		return false
	}

	close(task.stop)
	delete(t.tasks, code)
	return true
}

// IsCurrent reports whether id is the countdown currently scheduled for code
func (t *Timers) IsCurrent(code string, id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[code]
	return ok && task.id == id
}

// Active reports whether any countdown is scheduled for code
func (t *Timers) Active(code string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.tasks[code]
	return ok
}

// Count returns the number of scheduled countdowns
func (t *Timers) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tasks)
}

// Close cancels every countdown and waits for their goroutines to exit
func (t *Timers) Close() {
	t.mu.Lock()
	t.closed = true
	for code, task := range t.tasks {
		close(task.stop)
		delete(t.tasks, code)
	}
	t.mu.Unlock()

	t.wg.Wait()
}

// run drives one countdown until it reaches zero or is stopped
func (t *Timers) run(code string, task *timerTask, cd Countdown) {
	defer t.wg.Done()
	defer t.finish(code, task.id)

	ticker := time.NewTicker(cd.Interval)
	defer ticker.Stop()

	remaining := cd.From
	if cd.Immediate {
		if !t.deliver(task, cd, remaining) {
			return
		}
		remaining--
	}

	for ; remaining >= 0; remaining-- {
		select {
		case <-task.stop:
			return
		case <-ticker.C:
		}

		if !t.deliver(task, cd, remaining) {
			return
		}
	}
}

// deliver invokes the tick callback unless the task was stopped
func (t *Timers) deliver(task *timerTask, cd Countdown, remaining int) bool {
	select {
	case <-task.stop:
		return false
	default:
	}

	cd.OnTick(task.id, remaining)
	return true
}

// finish drops a countdown that ran to completion
func (t *Timers) finish(code string, id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task, ok := t.tasks[code]; ok && task.id == id {
		delete(t.tasks, code)
	}
}
