package warmer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expki/go-olapcache/metrics"
	"github.com/expki/go-olapcache/olap"
	"github.com/expki/go-olapcache/warmer"
)

type target struct {
	lock    sync.Mutex
	cleared int
	warmed  []olap.View
	fail    map[olap.View]error
	panics  map[olap.View]bool
	block   chan struct{}
}

func (t *target) ClearCache() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.cleared++
}

func (t *target) Warm(ctx context.Context, view olap.View) error {
	if t.block != nil {
		select {
		case <-t.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	t.lock.Lock()
	t.warmed = append(t.warmed, view)
	err, panics := t.fail[view], t.panics[view]
	t.lock.Unlock()
	if panics {
		panic("boom")
	}
	return err
}

func (t *target) Warmed() []olap.View {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]olap.View(nil), t.warmed...)
}

func waitAll(t *testing.T, tasks []*warmer.Task) {
	t.Helper()
	for _, task := range tasks {
		select {
		case <-task.Done():
		case <-time.After(5 * time.Second):
			t.Fatalf("task %d (%s) did not finish", task.ID, task.View)
		}
	}
}

func TestWarmStartupDefaultsToHotViews(t *testing.T) {
	t.Parallel()

	tgt := &target{}
	w := warmer.New(tgt, nil)
	tasks := w.WarmStartup(t.Context())
	require.Len(t, tasks, len(olap.HotViews))
	waitAll(t, tasks)

	assert.ElementsMatch(t, olap.HotViews, tgt.Warmed())
	for _, task := range tasks {
		assert.NoError(t, task.Err())
		assert.Equal(t, warmer.StatusOK, task.Status())
		assert.NotNil(t, task.Info().FinishedAt)
	}
	assert.Len(t, w.Tasks(), len(olap.HotViews))
}

func TestWarmStartupReturnsBeforeWarming(t *testing.T) {
	t.Parallel()

	tgt := &target{block: make(chan struct{})}
	w := warmer.New(tgt, nil, olap.ViewDailyTrend)
	tasks := w.WarmStartup(t.Context())

	require.Len(t, tasks, 1)
	assert.Equal(t, warmer.StatusRunning, tasks[0].Status())
	assert.Nil(t, tasks[0].Info().FinishedAt)

	close(tgt.block)
	require.NoError(t, w.Wait(t.Context()))
	assert.Equal(t, warmer.StatusOK, tasks[0].Status())
}

func TestWarmFailuresStayOnTheTask(t *testing.T) {
	t.Parallel()

	collectors := metrics.New(prometheus.NewRegistry())
	tgt := &target{
		fail:   map[olap.View]error{olap.ViewArtistMonth: errors.New("no hosts available")},
		panics: map[olap.View]bool{olap.ViewCityGenre: true},
	}
	w := warmer.New(tgt, collectors)
	tasks := w.WarmStartup(t.Context())
	waitAll(t, tasks)

	byView := make(map[olap.View]*warmer.Task)
	for _, task := range tasks {
		byView[task.View] = task
	}
	assert.NoError(t, byView[olap.ViewGenreMonth].Err())
	assert.EqualError(t, byView[olap.ViewArtistMonth].Err(), "no hosts available")
	assert.ErrorContains(t, byView[olap.ViewCityGenre].Err(), "panicked")
	assert.Equal(t, warmer.StatusDegraded, byView[olap.ViewCityGenre].Status())

	assert.Equal(t, 1.0, collectors.Value("warm_tasks_total", "genre_month", "ok"))
	assert.Equal(t, 1.0, collectors.Value("warm_tasks_total", "artist_month", "degraded"))
	assert.Equal(t, 1.0, collectors.Value("warm_tasks_total", "city_genre", "degraded"))
}

func TestResetClearsThenWarms(t *testing.T) {
	t.Parallel()

	tgt := &target{}
	w := warmer.New(tgt, nil, olap.ViewGenreMonth)
	waitAll(t, w.WarmStartup(t.Context()))
	tasks := w.Reset(t.Context())
	waitAll(t, tasks)

	assert.Equal(t, 1, tgt.cleared)
	assert.Equal(t, []olap.View{olap.ViewGenreMonth, olap.ViewGenreMonth}, tgt.Warmed())
	all := w.Tasks()
	require.Len(t, all, 2)
	assert.Less(t, all[0].ID, all[1].ID)
}

func TestWaitHonoursContext(t *testing.T) {
	t.Parallel()

	tgt := &target{block: make(chan struct{})}
	w := warmer.New(tgt, nil, olap.ViewGenreMonth)
	w.WarmStartup(t.Context())

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Wait(ctx), context.DeadlineExceeded)

	close(tgt.block)
	assert.NoError(t, w.Wait(t.Context()))
}

func TestTaskHistoryIsBounded(t *testing.T) {
	t.Parallel()

	w := warmer.New(&target{}, nil, olap.ViewGenreMonth)
	for range 100 {
		waitAll(t, w.WarmStartup(t.Context()))
	}
	tasks := w.Tasks()
	assert.LessOrEqual(t, len(tasks), 65)
	assert.Equal(t, uint64(100), tasks[len(tasks)-1].ID)
}

func TestWaitRacingReset(t *testing.T) {
	t.Parallel()

	tgt := &target{block: make(chan struct{})}
	w := warmer.New(tgt, nil, olap.ViewGenreMonth, olap.ViewCityGenre)
	before := w.WarmStartup(t.Context())

	waited := make(chan error, 1)
	go func() {
		waited <- w.Wait(t.Context())
	}()
	var after []*warmer.Task
	for range 5 {
		after = append(after, w.Reset(t.Context())...)
	}

	close(tgt.block)
	require.NoError(t, <-waited)
	waitAll(t, before)
	waitAll(t, after)
	require.NoError(t, w.Wait(t.Context()))
	assert.Equal(t, 5, tgt.cleared)
}
