package domain

import "experimentation-control-plane/internal/stats"

// Results is the aggregate outcome of an experiment. Significance covers only the first two
// variants in Variants order; Winner is chosen across all of them.
type Results struct {
	ExperimentID      string                `json:"experimentId"`
	Variants          []stats.VariantResult `json:"results"`
	Significance      float64               `json:"significance"`
	Winner            string                `json:"winner,omitempty"`
	IsSignificant     bool                  `json:"isSignificant"`
	MinimumSampleSize int                   `json:"minimumSampleSize"`
	SampleSizeReached bool                  `json:"sampleSizeReached"`
}

// Aggregate groups events by variant in first-seen order and scores them.
// It never fails: no events yields empty results with zero significance.
func Aggregate(exp *Experiment, events []*Event) *Results {
	out := &Results{
		ExperimentID:      exp.ID,
		Variants:          []stats.VariantResult{},
		MinimumSampleSize: exp.MinimumSampleSize,
	}
	if len(events) == 0 {
		return out
	}

	type group struct {
		result stats.VariantResult
		users  map[string]struct{}
	}
	var order []string
	groups := make(map[string]*group)
	for _, ev := range events {
		g, ok := groups[ev.Variant]
		if !ok {
			g = &group{result: stats.VariantResult{Variant: ev.Variant}, users: make(map[string]struct{})}
			groups[ev.Variant] = g
			order = append(order, ev.Variant)
		}
		g.users[ev.UserID] = struct{}{}
		g.result.TotalEvents++
		if exp.IsSuccess(ev.EventType) {
			g.result.SuccessCount++
		}
	}

	reached := true
	for _, key := range order {
		g := groups[key]
		r := g.result
		r.Users = len(g.users)
		if r.TotalEvents > 0 {
			r.SuccessRate = float64(r.SuccessCount) / float64(r.TotalEvents)
		}
		if r.Users < exp.MinimumSampleSize {
			reached = false
		}
		out.Variants = append(out.Variants, r)
	}

	out.Significance = stats.SignificanceOf(out.Variants)
	out.Winner = stats.DetermineWinner(out.Variants, out.Significance, exp.ConfidenceLevel)
	out.IsSignificant = out.Significance >= exp.ConfidenceLevel
	out.SampleSizeReached = reached
	return out
}
