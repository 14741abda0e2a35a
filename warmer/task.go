package warmer

import (
	"sync"
	"time"

	"github.com/expki/go-olapcache/olap"
)

type Status string

const (
	StatusRunning  Status = "running"
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
)

// Task is the handle of one background warming run.
type Task struct {
	ID        uint64
	View      olap.View
	StartedAt time.Time

	done chan struct{}

	lock       sync.Mutex
	err        error
	finishedAt time.Time
}

func newTask(id uint64, view olap.View, now time.Time) *Task {
	return &Task{
		ID:        id,
		View:      view,
		StartedAt: now,
		done:      make(chan struct{}),
	}
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err is the warming error, nil while running or on success.
func (t *Task) Err() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.err
}

func (t *Task) Status() Status {
	select {
	case <-t.done:
	default:
		return StatusRunning
	}
	if t.Err() != nil {
		return StatusDegraded
	}
	return StatusOK
}

func (t *Task) finish(err error, now time.Time) {
	t.lock.Lock()
	t.err = err
	t.finishedAt = now
	t.lock.Unlock()
	close(t.done)
}

// TaskInfo is the JSON view of a task.
type TaskInfo struct {
	ID         uint64     `json:"id"`
	View       string     `json:"view"`
	Status     Status     `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

func (t *Task) Info() TaskInfo {
	info := TaskInfo{
		ID:        t.ID,
		View:      t.View.String(),
		Status:    t.Status(),
		StartedAt: t.StartedAt,
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.finishedAt.IsZero() {
		finished := t.finishedAt
		info.FinishedAt = &finished
	}
	if t.err != nil {
		info.Error = t.err.Error()
	}
	return info
}
