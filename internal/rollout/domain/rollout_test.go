package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func threeStage() Schedule {
	st := start
	return Schedule{
		StartTime: &st,
		Stages: []Stage{
			{Percentage: 10, DurationHours: 1},
			{Percentage: 50, DurationHours: 2},
			{Percentage: 100, DurationHours: 1},
		},
	}
}

func TestTargetPercentage(t *testing.T) {
	testCases := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"at start", 0, 10},
		{"30 minutes", 30 * time.Minute, 10},
		{"first window boundary", time.Hour, 50},
		{"90 minutes", 90 * time.Minute, 50},
		{"just before third window", 3*time.Hour - time.Second, 50},
		{"third window", 3*time.Hour + 30*time.Minute, 100},
		{"all elapsed", 4 * time.Hour, 100},
		{"long after", 72 * time.Hour, 100},
		// clock skew before the start time reads as the first stage
		{"before start", -time.Minute, 10},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TargetPercentage(threeStage(), start.Add(tc.elapsed)))
		})
	}
}

func TestTargetPercentage_PercentageActiveDuringWindow(t *testing.T) {
	// a final stage below 100 still yields 100 once it has elapsed
	st := start
	s := Schedule{StartTime: &st, Stages: []Stage{{Percentage: 5, DurationHours: 2}, {Percentage: 25, DurationHours: 2}}}
	assert.Equal(t, 5, TargetPercentage(s, start.Add(time.Hour)))
	assert.Equal(t, 25, TargetPercentage(s, start.Add(3*time.Hour)))
	assert.Equal(t, FullPercentage, TargetPercentage(s, start.Add(4*time.Hour)))
}

func TestTargetPercentage_NotStarted(t *testing.T) {
	s := threeStage()
	s.StartTime = nil
	assert.Equal(t, 0, TargetPercentage(s, start))
}

func TestRollout_Includes(t *testing.T) {
	r := &Rollout{Status: StatusInProgress, CurrentPercentage: 50}
	included := 0
	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("user-%d", i)
		first := r.Includes(id)
		for j := 0; j < 3; j++ {
			assert.Equal(t, first, r.Includes(id), "inclusion must be stable for %s", id)
		}
		if first {
			included++
		}
	}
	assert.InDelta(t, 500, included, 60)

	r.CurrentPercentage = 0
	assert.False(t, r.Includes("user-1"))
	r.CurrentPercentage = 100
	assert.True(t, r.Includes("user-1"))

	for _, st := range []RolloutStatus{StatusPending, StatusCompleted, StatusRolledBack} {
		r.Status = st
		assert.False(t, r.Includes("user-1"), "status %s", st)
	}
	var nilRollout *Rollout
	assert.False(t, nilRollout.Includes("user-1"))
}

func TestRolloutStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusRolledBack.Terminal())
}
