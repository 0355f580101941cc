package leitner

import (
	"testing"
	"time"
)

var day0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestIsDue(t *testing.T) {
	p := &Progress{ReviewDate: day0.Add(24 * time.Hour)}
	if p.IsDue(day0) {
		t.Error("expected not due before review date")
	}
	p.ReviewDate = day0
	if !p.IsDue(day0) {
		t.Error("expected due on review date")
	}
	if !(&Progress{}).IsDue(day0) {
		t.Error("expected unscheduled card to be due")
	}
}

func TestRecord_CorrectMovesUp(t *testing.T) {
	p := &Progress{Box: 1}
	for _, want := range []int{2, 3, 4, 5, 5} {
		p.Record(true, day0)
		if p.Box != want {
			t.Fatalf("Box = %d, want %d", p.Box, want)
		}
	}
	if got, want := p.ReviewDate, day0.AddDate(0, 0, 30); !got.Equal(want) {
		t.Errorf("ReviewDate = %v, want %v", got, want)
	}
	if len(p.Attempts) != 5 {
		t.Errorf("len(Attempts) = %d, want 5", len(p.Attempts))
	}
}

func TestRecord_WrongResets(t *testing.T) {
	p := &Progress{Box: 4}
	p.Record(false, day0)
	if p.Box != 1 {
		t.Errorf("Box = %d, want 1", p.Box)
	}
	if got, want := p.ReviewDate, day0.AddDate(0, 0, 1); !got.Equal(want) {
		t.Errorf("ReviewDate = %v, want %v", got, want)
	}
	if p.Failures() != 1 {
		t.Errorf("Failures() = %d, want 1", p.Failures())
	}
}

func TestIntervalDays(t *testing.T) {
	tests := []struct {
		box, want int
	}{
		{0, 1}, {1, 1}, {2, 3}, {3, 7}, {4, 14}, {5, 30}, {9, 30},
	}
	for _, tt := range tests {
		if got := IntervalDays(tt.box); got != tt.want {
			t.Errorf("IntervalDays(%d) = %d, want %d", tt.box, got, tt.want)
		}
	}
}
