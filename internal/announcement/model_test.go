package announcement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpired(t *testing.T) {
	now := time.Date(2024, 1, 25, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		expiry *time.Time
		want   bool
	}{
		{"no expiry", nil, false},
		{"expired", &past, true},
		{"not yet", &future, false},
		{"exactly now", &now, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Announcement{ExpiryDate: tt.expiry}
			assert.Equal(t, tt.want, a.IsExpired(now))
		})
	}
}

func TestIsVisible(t *testing.T) {
	now := time.Date(2024, 1, 25, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	assert.True(t, Announcement{IsActive: true}.IsVisible(now))
	assert.False(t, Announcement{IsActive: false}.IsVisible(now))
	assert.False(t, Announcement{IsActive: true, ExpiryDate: &past}.IsVisible(now))
}

func TestTargets(t *testing.T) {
	all := Announcement{TargetAudience: AudienceAll}
	units := Announcement{TargetAudience: AudienceSpecificUnits, TargetUnits: []string{"A-05-08", "B-12-03"}}

	assert.True(t, all.Targets("C-08-12"))
	assert.True(t, units.Targets("B-12-03"))
	assert.False(t, units.Targets("C-08-12"))
}

func TestPatchApplyCopiesUnits(t *testing.T) {
	units := []string{"A-1"}
	a := Announcement{Title: "Lift maintenance"}

	Patch{TargetUnits: units}.Apply(&a)
	units[0] = "Z-9"

	assert.Equal(t, []string{"A-1"}, a.TargetUnits)
	assert.Equal(t, "Lift maintenance", a.Title)
}
