// Package warmer pre-populates the view cache in the background.
package warmer

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/expki/go-olapcache/config"
	"github.com/expki/go-olapcache/logger"
	"github.com/expki/go-olapcache/metrics"
	"github.com/expki/go-olapcache/olap"
	"github.com/jonboulle/clockwork"
)

// Target is the query layer being warmed.
type Target interface {
	ClearCache()
	Warm(ctx context.Context, view olap.View) error
}

type Warmer struct {
	target  Target
	metrics *metrics.Collectors
	views   []olap.View
	clock   clockwork.Clock

	index atomic.Uint64

	lock  sync.Mutex
	tasks []*Task
}

// New returns a warmer for views, defaulting to the hot views.
func New(target Target, collectors *metrics.Collectors, views ...olap.View) *Warmer {
	if len(views) == 0 {
		views = olap.HotViews
	}
	return &Warmer{
		target:  target,
		metrics: collectors,
		views:   slices.Clone(views),
		clock:   clockwork.NewRealClock(),
	}
}

func (w *Warmer) Views() []olap.View {
	return slices.Clone(w.views)
}

// WarmStartup starts one task per view and returns without waiting for them.
// Failures are logged and recorded on the task, never returned.
func (w *Warmer) WarmStartup(ctx context.Context) []*Task {
	started := make([]*Task, 0, len(w.views))
	for _, view := range w.views {
		started = append(started, w.start(ctx, view))
	}
	logger.Sugar().Infof("warming %d views", len(started))
	return started
}

// Reset clears the cache and warms the views again.
func (w *Warmer) Reset(ctx context.Context) []*Task {
	w.target.ClearCache()
	return w.WarmStartup(ctx)
}

// Tasks lists the running tasks and the most recent finished ones, oldest first.
func (w *Warmer) Tasks() []*Task {
	w.lock.Lock()
	defer w.lock.Unlock()
	return slices.Clone(w.tasks)
}

// Wait blocks until every task started before the call has finished or ctx is
// done. Tasks started while it waits are not awaited.
func (w *Warmer) Wait(ctx context.Context) error {
	w.lock.Lock()
	pending := make([]*Task, 0, len(w.tasks))
	for _, task := range w.tasks {
		if task.Status() == StatusRunning {
			pending = append(pending, task)
		}
	}
	w.lock.Unlock()

	for _, task := range pending {
		select {
		case <-task.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (w *Warmer) start(ctx context.Context, view olap.View) *Task {
	task := newTask(w.index.Add(1), view, w.clock.Now())
	w.track(task)
	go func() {
		err := w.run(ctx, task)
		defer task.finish(err, w.clock.Now())
		w.metrics.WarmTask(view.String(), err)
		if err != nil {
			logger.Sugar().Errorw("cache warming failed", "task", task.ID, "view", view.String(), "error", err)
		} else {
			logger.Sugar().Debugf("%d warmed %s (%dms)", task.ID, view, w.clock.Since(task.StartedAt).Milliseconds())
		}
	}()
	return task
}

func (w *Warmer) run(ctx context.Context, task *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("warming %s panicked: %v", task.View, r)
		}
	}()
	return w.target.Warm(ctx, task.View)
}

// track records task, dropping the oldest finished tasks beyond the history bound.
func (w *Warmer) track(task *Task) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.tasks = append(w.tasks, task)
	finished := 0
	for _, t := range w.tasks {
		if t.Status() != StatusRunning {
			finished++
		}
	}
	if finished <= config.WARM_TASK_HISTORY {
		return
	}
	drop := finished - config.WARM_TASK_HISTORY
	w.tasks = slices.DeleteFunc(w.tasks, func(t *Task) bool {
		if drop > 0 && t.Status() != StatusRunning {
			drop--
			return true
		}
		return false
	})
}
