package engine

import (
	"fmt"
	"time"
)

// WeatherSummary is a one-day forecast reduced to the fields the engine
// reads. A nil summary means "no weather available" and is always legal.
type WeatherSummary struct {
	MinTempC        float64
	MaxTempC        float64
	MaxWindKmh      float64
	PrecipitationMM float64
}

func (s WeatherSummary) String() string {
	return fmt.Sprintf("min %.1f°C, max %.1f°C, wind max %.1f km/h, rain %.1f mm",
		s.MinTempC, s.MaxTempC, s.MaxWindKmh, s.PrecipitationMM)
}

const (
	rainThresholdMM  = 2.0
	windThresholdKmh = 50.0
	frostThresholdC  = 2.0
)

// EnvironmentContext is everything Evaluate needs to know about the
// moment of evaluation. Derived, never stored.
type EnvironmentContext struct {
	Raining  bool
	Windy    bool
	Freezing bool
	Weather  string

	Weekday int // 0=Monday .. 6=Sunday
	Hour    int
	Month   time.Month
}

// BuildContext derives the evaluation context from the clock and an
// optional weather summary. A missing summary degrades to fair weather
// so ranking never blocks on the weather provider.
func BuildContext(now time.Time, sum *WeatherSummary) EnvironmentContext {
	ctx := EnvironmentContext{
		Weekday: (int(now.Weekday()) + 6) % 7,
		Hour:    now.Hour(),
		Month:   now.Month(),
		Weather: "no weather data",
	}
	if sum == nil {
		return ctx
	}
	ctx.Raining = sum.PrecipitationMM > rainThresholdMM
	ctx.Windy = sum.MaxWindKmh > windThresholdKmh
	ctx.Freezing = sum.MinTempC < frostThresholdC
	ctx.Weather = sum.String()
	return ctx
}
