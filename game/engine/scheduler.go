package engine

import (
	"sort"
	"sync"
	"time"
)

// Scheduler runs f once after d. The returned func cancels it; cancelling a
// task that already ran is harmless.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// ManualScheduler is a Scheduler driven by an explicit clock. Tasks only run
// inside Advance or RunAll, on the caller's goroutine.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	due       time.Duration
	seq       int
	f         func()
	cancelled bool
}

// NewManualScheduler creates a scheduler at time zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc registers f to run once the clock passes d from now
func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{due: m.now + d, seq: m.seq, f: f}
	m.tasks = append(m.tasks, task)
	return func() {
		m.mu.Lock()
		task.cancelled = true
		m.mu.Unlock()
	}
}

// Pending returns the number of tasks still waiting to run
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and runs every task that became due,
// including tasks scheduled by those tasks.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		task := m.popDue(target)
		if task == nil {
			break
		}
		task.f()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// RunAll runs tasks in due order until none remain
func (m *ManualScheduler) RunAll() {
	for {
		task := m.popDue(-1)
		if task == nil {
			return
		}
		task.f()
	}
}

// popDue removes and returns the earliest live task due at or before limit.
// A negative limit accepts any task.
func (m *ManualScheduler) popDue(limit time.Duration) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.tasks = live
	if len(m.tasks) == 0 {
		return nil
	}

	sort.Slice(m.tasks, func(i, j int) bool {
		if m.tasks[i].due != m.tasks[j].due {
			return m.tasks[i].due < m.tasks[j].due
		}
		return m.tasks[i].seq < m.tasks[j].seq
	})
	next := m.tasks[0]
	if limit >= 0 && next.due > limit {
		return nil
	}
	m.tasks = m.tasks[1:]
	if next.due > m.now {
		m.now = next.due
	}
	return next
}
