package core

import (
	"math"
	"testing"
)

func TestDescribeBasics(t *testing.T) {
	s, err := Describe([]float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Count != 5 {
		t.Fatalf("count: got %d, want 5", s.Count)
	}
	if s.Mean != 3.0 {
		t.Fatalf("mean: got %v, want 3.0", s.Mean)
	}
	if s.Min != 1 || s.Max != 5 {
		t.Fatalf("min/max: got %v/%v, want 1/5", s.Min, s.Max)
	}
	// Sample std of 1..5 is sqrt(2.5).
	if math.Abs(s.Std-math.Sqrt(2.5)) > 1e-12 {
		t.Fatalf("std: got %v, want %v", s.Std, math.Sqrt(2.5))
	}
	if s.Q25 != 2 || s.Q50 != 3 || s.Q75 != 4 {
		t.Fatalf("quartiles: got %v/%v/%v, want 2/3/4", s.Q25, s.Q50, s.Q75)
	}
}

func TestDescribeInterpolatedQuartiles(t *testing.T) {
	s, err := Describe([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(s.Q25-1.75) > 1e-12 {
		t.Fatalf("q25: got %v, want 1.75", s.Q25)
	}
	if math.Abs(s.Q50-2.5) > 1e-12 {
		t.Fatalf("q50: got %v, want 2.5", s.Q50)
	}
	if math.Abs(s.Q75-3.25) > 1e-12 {
		t.Fatalf("q75: got %v, want 3.25", s.Q75)
	}
}

func TestDescribeUnsortedInput(t *testing.T) {
	s, err := Describe([]float64{5, 1, 4, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Min != 1 || s.Max != 5 || s.Q50 != 3 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestDescribeSingleValue(t *testing.T) {
	s, err := Describe([]float64{7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Std != 0 || s.Q25 != 7 || s.Q75 != 7 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestDescribeEmpty(t *testing.T) {
	if _, err := Describe(nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
}
