package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWholeDaysSince(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Paris")
	assert.NoError(t, err)

	now := time.Date(2025, time.June, 10, 8, 0, 0, 0, loc)

	tests := []struct {
		name string
		then time.Time
		want int
	}{
		{"same day", time.Date(2025, time.June, 10, 1, 0, 0, 0, loc), 0},
		{"late yesterday counts as one day", time.Date(2025, time.June, 9, 23, 30, 0, 0, loc), 1},
		{"a week ago", time.Date(2025, time.June, 3, 12, 0, 0, 0, loc), 7},
		{"utc timestamp converted to local day", time.Date(2025, time.June, 9, 22, 30, 0, 0, time.UTC), 0},
		{"across month boundary", time.Date(2025, time.May, 31, 10, 0, 0, 0, loc), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wholeDaysSince(now, tt.then))
		})
	}
}
