package facility

import (
	"testing"
	"time"
)

func TestCost(t *testing.T) {
	start := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rate float64
		end  time.Time
		want float64
	}{
		{"two hours", 100, start.Add(2 * time.Hour), 200},
		{"three hours", 50, start.Add(3 * time.Hour), 150},
		{"half hour", 30, start.Add(30 * time.Minute), 15},
		{"zero span", 100, start, 0},
		{"end before start", 100, start.Add(-time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cost(tt.rate, start, tt.end); got != tt.want {
				t.Errorf("Cost(%v) = %v, want %v", tt.rate, got, tt.want)
			}
		})
	}
}

func TestBookingStatusValid(t *testing.T) {
	for _, s := range []BookingStatus{BookingPending, BookingApproved, BookingRejected, BookingCompleted} {
		if !s.IsValid() {
			t.Errorf("BookingStatus(%q).IsValid() = false", s)
		}
	}
	if BookingStatus("cancelled").IsValid() {
		t.Error("expected cancelled to be invalid")
	}
}
