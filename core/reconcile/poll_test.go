package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll(t *testing.T) {
	src := &versionSource{name: "rows", versions: [][]row{
		{{"a", 1}},
		{{"b", 1}},
		{{"b", 1}},
	}}
	tracker := NewTracker(src, byID, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reports []*Report
	err := Poll(ctx, tracker, time.Millisecond, nil, func(r *Report) {
		reports = append(reports, r)
		if len(reports) == 3 {
			cancel()
		}
	})
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, []string{"a"}, reports[0].Entered)
	assert.Equal(t, []string{"a"}, reports[1].Exited)
	assert.False(t, reports[2].Summary.HasChanges())
}

func TestPoll_ContinuesAfterError(t *testing.T) {
	src := &versionSource{name: "flaky", err: errors.New("unavailable")}
	tracker := NewTracker(src, byID, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := Poll(ctx, tracker, time.Millisecond, nil, func(*Report) { called = true })
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestPoll_InvalidInterval(t *testing.T) {
	err := Poll(context.Background(), NewTracker(&versionSource{name: "x"}, byID, nil), 0, nil, nil)
	assert.ErrorContains(t, err, "poll interval must be positive")
}

func TestConfig_Interval(t *testing.T) {
	assert.Equal(t, 30*time.Second, Config{IntervalSeconds: 30}.Interval())
	assert.Equal(t, time.Duration(0), Config{}.Interval())
}
