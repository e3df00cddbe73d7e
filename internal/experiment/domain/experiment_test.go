package domain

import (
	"errors"
	"fmt"
	"testing"

	"experimentation-control-plane/internal/apperr"
	"experimentation-control-plane/internal/bucketing"
)

func TestValidateConfig(t *testing.T) {
	ab := []Variant{{Key: "A"}, {Key: "B"}}
	testCases := []struct {
		name       string
		variants   []Variant
		allocation Allocations
		wantErr    bool
	}{
		{"valid", ab, Allocations{{"A", 0.5}, {"B", 0.5}}, false},
		{"within tolerance", ab, Allocations{{"A", 0.5}, {"B", 0.505}}, false},
		{"sum 0.9", ab, Allocations{{"A", 0.4}, {"B", 0.5}}, true},
		{"sum 1.1", ab, Allocations{{"A", 0.6}, {"B", 0.5}}, true},
		{"variant missing allocation", []Variant{{Key: "A"}, {Key: "C"}}, Allocations{{"A", 0.5}, {"B", 0.5}}, true},
		{"allocation without variant", []Variant{{Key: "A"}}, Allocations{{"A", 0.5}, {"B", 0.5}}, false},
		{"empty allocation", ab, nil, true},
		{"duplicate allocation key", ab, Allocations{{"A", 0.5}, {"A", 0.5}}, true},
		{"duplicate variant key", []Variant{{Key: "A"}, {Key: "A"}}, Allocations{{"A", 1}}, true},
		{"negative fraction", ab, Allocations{{"A", 1.5}, {"B", -0.5}}, true},
		{"empty key", []Variant{{Key: ""}}, Allocations{{"", 1}}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(tc.variants, tc.allocation)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateConfig err = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("error %v is not a validation error", err)
			}
		})
	}
}

func TestAllocations_Select(t *testing.T) {
	alloc := Allocations{{"A", 0.2}, {"B", 0.3}, {"C", 0.5}}
	testCases := []struct {
		f    float64
		want string
	}{
		{0, "A"},
		{0.2, "A"},
		{0.2001, "B"},
		{0.5, "B"},
		{0.9999, "C"},
		{1.5, "A"},
	}
	for _, tc := range testCases {
		if got := alloc.Select(tc.f); got != tc.want {
			t.Errorf("Select(%v) = %q, want %q", tc.f, got, tc.want)
		}
	}
	if got := Allocations(nil).Select(0.3); got != "" {
		t.Errorf("empty Select = %q, want empty", got)
	}
}

func TestAllocations_Select_SplitConformance(t *testing.T) {
	alloc := Allocations{{"A", 0.5}, {"B", 0.5}}
	const n = 10000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		counts[alloc.Select(bucketing.Fraction(fmt.Sprintf("user-%06d", i)))]++
	}
	share := float64(counts["A"]) / n
	if share < 0.47 || share > 0.53 {
		t.Errorf("share of A = %.4f, want 0.50 ± 0.03", share)
	}
	if counts["A"]+counts["B"] != n {
		t.Errorf("counts = %v, want all users in A or B", counts)
	}
}

func TestCanTransition(t *testing.T) {
	testCases := []struct {
		from, to ExperimentStatus
		want     bool
	}{
		{StatusDraft, StatusRunning, true},
		{StatusRunning, StatusPaused, true},
		{StatusPaused, StatusRunning, true},
		{StatusDraft, StatusCompleted, true},
		{StatusRunning, StatusCompleted, true},
		{StatusPaused, StatusCompleted, true},
		{StatusCompleted, StatusCompleted, false},
		{StatusCompleted, StatusRunning, false},
		{StatusDraft, StatusPaused, false},
		{StatusRunning, StatusDraft, false},
	}
	for _, tc := range testCases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestExperiment_ApplyDefaults(t *testing.T) {
	e := &Experiment{}
	e.ApplyDefaults()
	if e.MinimumSampleSize != DefaultMinimumSampleSize || e.ConfidenceLevel != DefaultConfidenceLevel {
		t.Errorf("defaults = (%d, %v)", e.MinimumSampleSize, e.ConfidenceLevel)
	}
	e = &Experiment{MinimumSampleSize: 10, ConfidenceLevel: 0.9}
	e.ApplyDefaults()
	if e.MinimumSampleSize != 10 || e.ConfidenceLevel != 0.9 {
		t.Errorf("explicit values overwritten: (%d, %v)", e.MinimumSampleSize, e.ConfidenceLevel)
	}
}

func TestAggregate(t *testing.T) {
	exp := &Experiment{ID: "e1", SuccessMetric: "purchase", MinimumSampleSize: 2, ConfidenceLevel: 0.95}

	empty := Aggregate(exp, nil)
	if len(empty.Variants) != 0 || empty.Significance != 0 || empty.Winner != "" || empty.IsSignificant {
		t.Fatalf("empty results = %+v", empty)
	}

	events := []*Event{
		{UserID: "u1", Variant: "B", EventType: "purchase"},
		{UserID: "u2", Variant: "A", EventType: "view"},
		{UserID: "u2", Variant: "A", EventType: "success"},
		{UserID: "u1", Variant: "B", EventType: "view"},
		{UserID: "u3", Variant: "A", EventType: "view"},
	}
	res := Aggregate(exp, events)
	if len(res.Variants) != 2 {
		t.Fatalf("variants = %d, want 2", len(res.Variants))
	}
	b, a := res.Variants[0], res.Variants[1]
	if b.Variant != "B" || a.Variant != "A" {
		t.Fatalf("order = %s,%s, want first-seen B,A", b.Variant, a.Variant)
	}
	if b.Users != 1 || b.TotalEvents != 2 || b.SuccessCount != 1 || b.SuccessRate != 0.5 {
		t.Errorf("B = %+v", b)
	}
	if a.Users != 2 || a.TotalEvents != 3 || a.SuccessCount != 1 {
		t.Errorf("A = %+v", a)
	}
	if res.Significance != 0 || res.Winner != "" || res.IsSignificant {
		t.Errorf("below minimum events should not be significant: %+v", res)
	}
	if res.SampleSizeReached {
		t.Error("B has one user, sample size should not be reached")
	}
}
