package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"majordome-backend/internal/engine"
)

func codes(alerts []Alert) []string {
	var out []string
	for _, a := range alerts {
		out = append(out, a.Code)
	}
	return out
}

func TestFromSummaryNil(t *testing.T) {
	assert.Nil(t, FromSummary(nil, DefaultRules()))
}

func TestFromSummaryFairDay(t *testing.T) {
	sum := &engine.WeatherSummary{MinTempC: 8, MaxTempC: 20, MaxWindKmh: 15, PrecipitationMM: 0}
	assert.Empty(t, FromSummary(sum, DefaultRules()))
}

func TestFromSummaryThresholds(t *testing.T) {
	tests := []struct {
		name string
		sum  engine.WeatherSummary
		want []string
	}{
		{"frost at zero", engine.WeatherSummary{MinTempC: 0, MaxTempC: 5}, []string{"frost"}},
		{"just above frost", engine.WeatherSummary{MinTempC: 0.1, MaxTempC: 5}, nil},
		{"strong wind", engine.WeatherSummary{MinTempC: 10, MaxTempC: 15, MaxWindKmh: 60}, []string{"wind"}},
		{"heavy rain", engine.WeatherSummary{MinTempC: 10, MaxTempC: 15, PrecipitationMM: 10}, []string{"rain"}},
		{"heat", engine.WeatherSummary{MinTempC: 18, MaxTempC: 30}, []string{"heat"}},
		{"storm piles up", engine.WeatherSummary{MinTempC: -2, MaxTempC: 4, MaxWindKmh: 80, PrecipitationMM: 14}, []string{"frost", "wind", "rain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := tt.sum
			assert.Equal(t, tt.want, codes(FromSummary(&sum, DefaultRules())))
		})
	}
}

func TestFromSummaryCustomRules(t *testing.T) {
	rules := Rules{FrostBelowC: 3, WindAboveKmh: 40, RainAboveMM: 5, HeatAboveC: 25}
	sum := &engine.WeatherSummary{MinTempC: 2.5, MaxTempC: 26, MaxWindKmh: 45, PrecipitationMM: 6}

	alerts := FromSummary(sum, rules)

	require.Len(t, alerts, 4)
	assert.Equal(t, []string{"frost", "wind", "rain", "heat"}, codes(alerts))
	assert.Equal(t, "warning", alerts[0].Level)
	assert.Equal(t, "info", alerts[2].Level)
}
