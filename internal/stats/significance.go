// Package stats implements the two-proportion z-test used to score binary success-metric experiments.
//
// Every function is total: insufficient samples, a degenerate pooled proportion and zero
// variance all yield a confidence of 0 rather than an error.
package stats

import "math"

// MinEventsPerArm is the smallest per-arm event count for which a confidence is computed.
const MinEventsPerArm = 10

// Arm is the aggregate a significance test needs from one variant.
type Arm struct {
	SuccessRate float64
	TotalEvents int
}

// VariantResult is the per-variant aggregate reported by experiment results.
type VariantResult struct {
	Variant      string  `json:"variant"`
	Users        int     `json:"users"`
	SuccessRate  float64 `json:"successRate"`
	SuccessCount int     `json:"successCount"`
	TotalEvents  int     `json:"totalEvents"`
}

// Arm returns the fields of r the significance test uses.
func (r VariantResult) Arm() Arm {
	return Arm{SuccessRate: r.SuccessRate, TotalEvents: r.TotalEvents}
}

// -----------------------------------------------------------------------------
// Two-proportion test
// -----------------------------------------------------------------------------

// ZScore returns |p2-p1| / se under the pooled-proportion null hypothesis.
// ok is false when either arm is below MinEventsPerArm, the pooled proportion is 0 or 1,
// or the standard error is 0.
func ZScore(control, treatment Arm) (z float64, ok bool) {
	if control.TotalEvents < MinEventsPerArm || treatment.TotalEvents < MinEventsPerArm {
		return 0, false
	}
	n1 := float64(control.TotalEvents)
	n2 := float64(treatment.TotalEvents)
	p1 := control.SuccessRate
	p2 := treatment.SuccessRate

	pooled := (n1*p1 + n2*p2) / (n1 + n2)
	if pooled == 0 || pooled == 1 {
		return 0, false
	}
	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	if se == 0 {
		return 0, false
	}
	return math.Abs(p2-p1) / se, true
}

// Significance returns the two-sided confidence 1 - 2(1 - Φ(z)) clamped to [0,1].
func Significance(control, treatment Arm) float64 {
	z, ok := ZScore(control, treatment)
	if !ok {
		return 0
	}
	confidence := 1 - 2*(1-NormalCDF(z))
	return math.Max(0, math.Min(1, confidence))
}

// SignificanceOf compares the first two results in order. Any further variants are not tested.
func SignificanceOf(results []VariantResult) float64 {
	if len(results) < 2 {
		return 0
	}
	return Significance(results[0].Arm(), results[1].Arm())
}

// DetermineWinner returns the variant with the strictly highest success rate across all
// results, first encountered on ties, or "" when significance is below confidenceLevel.
func DetermineWinner(results []VariantResult, significance, confidenceLevel float64) string {
	if significance < confidenceLevel || len(results) == 0 {
		return ""
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.SuccessRate > best.SuccessRate {
			best = r
		}
	}
	return best.Variant
}

// -----------------------------------------------------------------------------
// Normal distribution
// -----------------------------------------------------------------------------

// Abramowitz and Stegun 7.1.26 coefficients.
const (
	erfP  = 0.3275911
	erfA1 = 0.254829592
	erfA2 = -0.284496736
	erfA3 = 1.421413741
	erfA4 = -1.453152027
	erfA5 = 1.061405429
)

// NormalCDF is the standard normal CDF, 0.5 * (1 + erf(x/√2)).
func NormalCDF(x float64) float64 {
	return 0.5 * (1 + Erf(x/math.Sqrt2))
}

// Erf approximates the error function with max absolute error about 1.5e-7.
// Stored significance values were computed with this approximation, not math.Erf.
func Erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1
	}
	x = math.Abs(x)
	t := 1 / (1 + erfP*x)
	y := 1 - ((((erfA5*t+erfA4)*t+erfA3)*t+erfA2)*t+erfA1)*t*math.Exp(-x*x)
	return sign * y
}
