package main

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGetRun(t *testing.T) {
	s := tempStore(t)
	r, err := runProblem(loadToyGlove(t), DefaultConfig(), nil)
	require.NoError(t, err)

	rec, err := s.RecordRun(NewRunRecord(r))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.RunID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := s.GetRun(rec.RunID)
	require.NoError(t, err)
	assert.Equal(t, "toy glove", got.Problem)
	assert.Equal(t, 7, got.Slots)
	assert.Equal(t, "[94 0 0]", got.Stats)
	assert.Equal(t, "[110 0 0]", got.Goal)
	assert.Equal(t, "glove 30% (p=0.3 dark cost=1.5e+06 stats=[5 3 1])", got.Scroll)
	assert.Equal(t, 0.143316675, got.PGoal)
	assert.Equal(t, Cost(3329705.27625), got.ExpCost)
	assert.Equal(t, r.Counters.Evaluations, got.Evaluations)
	assert.Equal(t, r.Counters.CacheHits, got.CacheHits)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestGetRunNotFound(t *testing.T) {
	s := tempStore(t)
	_, err := s.GetRun("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRecordRunInfiniteCostAndNoScroll(t *testing.T) {
	s := tempStore(t)

	rec, err := s.RecordRun(RunRecord{RunID: "inf", Problem: "p", Stats: "[0]", Goal: "[1]", PGoal: 1, ExpCost: Cost(math.Inf(1))})
	require.NoError(t, err)
	assert.Equal(t, "inf", rec.RunID, "a given run ID is kept")

	got, err := s.GetRun("inf")
	require.NoError(t, err)
	assert.True(t, math.IsInf(float64(got.ExpCost), 1))
	assert.Empty(t, got.Scroll)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := tempStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		_, err := s.RecordRun(RunRecord{
			Problem:   name,
			Stats:     "[0]",
			Goal:      "[1]",
			CreatedAt: base.Add(time.Duration(i) * 100 * time.Millisecond),
		})
		require.NoError(t, err)
	}

	all, err := s.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Problem)
	assert.Equal(t, "second", all[1].Problem)
	assert.Equal(t, "first", all[2].Problem)
	assert.True(t, all[2].CreatedAt.Equal(base))

	last, err := s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "third", last[0].Problem)
}

func TestListRunsEmpty(t *testing.T) {
	s := tempStore(t)
	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
