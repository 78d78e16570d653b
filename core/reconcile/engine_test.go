package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"datajoin/core/join"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type row struct {
	ID    string
	Value int
}

// versionSource returns one configured version per Load call.
type versionSource struct {
	name     string
	versions [][]row
	calls    atomic.Int32
	err      error
}

func (s *versionSource) Name() string { return s.name }

func (s *versionSource) Load(ctx context.Context) ([]row, error) {
	if s.err != nil {
		return nil, s.err
	}
	n := int(s.calls.Add(1)) - 1
	if n >= len(s.versions) {
		n = len(s.versions) - 1
	}
	return s.versions[n], nil
}

var byID = join.Field[string, row]("ID")

func TestTracker_Sync(t *testing.T) {
	src := &versionSource{name: "rows", versions: [][]row{
		{{"a", 1}, {"b", 2}},
		{{"b", 3}, {"c", 4}},
		{{"b", 3}, {"c", 4}},
	}}
	core, logs := observer.New(zapcore.InfoLevel)
	tracker := NewTracker(src, byID, zap.New(core))

	assert.Nil(t, tracker.Last())

	first, err := tracker.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rows", first.Source)
	assert.Equal(t, uint64(1), first.Version)
	assert.Equal(t, []string{"a", "b"}, first.Entered)
	assert.Empty(t, first.Exited)

	second, err := tracker.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, second.Entered)
	assert.Equal(t, []string{"b"}, second.Updated)
	assert.Equal(t, []string{"b"}, second.Changed)
	assert.Equal(t, []string{"a"}, second.Exited)
	assert.Equal(t, Summary{Total: 2, Entered: 1, Updated: 1, Changed: 1, Exited: 1}, second.Summary)
	assert.True(t, second.Summary.HasChanges())

	third, err := tracker.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, third.Summary.HasChanges())
	assert.Same(t, third, tracker.Last())

	entries := logs.FilterMessage("Source reconciled").All()
	require.Len(t, entries, 3)
	assert.Equal(t, "rows", entries[0].ContextMap()["source"])
	assert.EqualValues(t, 1, entries[1].ContextMap()["exited"])
}

func TestTracker_LoadError(t *testing.T) {
	src := &versionSource{name: "broken", err: errors.New("connection refused")}
	tracker := NewTracker(src, byID, nil)

	_, err := tracker.Sync(context.Background())
	assert.ErrorContains(t, err, "failed to load source broken")
	assert.ErrorIs(t, err, src.err)
	assert.Nil(t, tracker.Last())
}

func TestTracker_BindError(t *testing.T) {
	src := &versionSource{name: "rows", versions: [][]row{{{"a", 1}}}}
	tracker := NewTracker(src, join.Field[string, row]("Missing"), nil)

	_, err := tracker.Sync(context.Background())
	assert.ErrorContains(t, err, "failed to reconcile source rows")
	assert.ErrorIs(t, err, join.ErrFieldNotFound)
}

func TestTracker_WithObjects(t *testing.T) {
	src := &versionSource{name: "rows", versions: [][]row{
		{{"a", 1}, {"b", 2}},
		{{"b", 2}},
	}}
	tracker := NewTracker(src, byID, nil)

	var destroyed []string
	objs := WithObjects(tracker, func(r row) (string, error) {
		return r.ID + "!", nil
	}, func(s string) error {
		destroyed = append(destroyed, s)
		return nil
	})

	_, err := tracker.Sync(context.Background())
	require.NoError(t, err)
	_, err = tracker.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a!"}, destroyed)

	var all []string
	err = tracker.View(func(j *join.Join[string, row]) error {
		var err error
		all, err = objs.All()
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b!"}, all)
}

func TestTracker_ConcurrentSync(t *testing.T) {
	src := &versionSource{name: "rows", versions: [][]row{{{"a", 1}}}}
	tracker := NewTracker(src, byID, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := tracker.Sync(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, report)
		}()
	}
	wg.Wait()

	last := tracker.Last()
	require.NotNil(t, last)
	assert.Equal(t, uint64(src.calls.Load()), last.Version, "one bind per load")
	assert.Equal(t, 1, last.Summary.Total)
}

func TestTracker_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var loadErr error
	src := SourceFunc[row]{
		SourceName: "slow",
		LoadFunc: func(ctx context.Context) ([]row, error) {
			close(started)
			<-release
			loadErr = ctx.Err()
			return []row{{"a", 1}}, nil
		},
	}
	tracker := NewTracker(src, byID, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := tracker.Sync(ctx)
		done <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.Eventually(t, func() bool { return tracker.Last() != nil }, time.Second, time.Millisecond)
	assert.NoError(t, loadErr)
	assert.Equal(t, uint64(1), tracker.Last().Version)
}

func TestSourceFunc(t *testing.T) {
	src := SourceFunc[int]{
		SourceName: "ints",
		LoadFunc: func(ctx context.Context) ([]int, error) {
			return []int{1, 2}, nil
		},
	}
	tracker := NewTracker[int, int](src, join.None[int, int](), nil)

	report, err := tracker.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ints", tracker.Name())
	assert.Equal(t, []string{"1", "2"}, report.Entered)
}
