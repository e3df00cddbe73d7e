package validation

import (
	"errors"
	"strings"
	"testing"

	"experimentation-control-plane/internal/apperr"
)

type sample struct {
	Name       string    `validate:"required,max=10"`
	Confidence float64   `validate:"omitempty,gte=0.8,lte=0.99"`
	Stages     []float64 `validate:"required,min=1"`
}

func TestStruct(t *testing.T) {
	testCases := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{"valid", sample{Name: "checkout", Confidence: 0.95, Stages: []float64{1}}, ""},
		{"zero confidence skipped", sample{Name: "checkout", Stages: []float64{1}}, ""},
		{"missing name", sample{Stages: []float64{1}}, "name is required"},
		{"name too long", sample{Name: "abcdefghijk", Stages: []float64{1}}, "name must be at most 10"},
		{"confidence low", sample{Name: "a", Confidence: 0.5, Stages: []float64{1}}, "confidence must be >= 0.8"},
		{"empty stages", sample{Name: "a", Stages: []float64{}}, "stages must have at least 1 entries"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Struct: %v", err)
				}
				return
			}
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("err = %q, want it to contain %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestStruct_JoinsFailures(t *testing.T) {
	err := Struct(sample{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "name is required; stages is required") {
		t.Errorf("err = %q", err.Error())
	}
}
