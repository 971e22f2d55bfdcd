package alerts

import (
	"context"
	"database/sql"

	"majordome-backend/internal/engine"
)

// Alert is one actionable weather suggestion for the household.
type Alert struct {
	Code    string `json:"code"`
	Level   string `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Rules holds the trigger thresholds. Stored per household in
// alert_rule; defaults apply when a row is missing or disabled.
type Rules struct {
	FrostBelowC  float64
	WindAboveKmh float64
	RainAboveMM  float64
	HeatAboveC   float64
}

func DefaultRules() Rules {
	return Rules{
		FrostBelowC:  0,
		WindAboveKmh: 60,
		RainAboveMM:  10,
		HeatAboveC:   28,
	}
}

// LoadRules merges alert_rule rows over the defaults. Read failures
// fall back to defaults; alerts are advisory and must not block.
func LoadRules(ctx context.Context, db *sql.DB) Rules {
	rules := DefaultRules()

	rows, err := db.QueryContext(ctx,
		`SELECT code, threshold FROM alert_rule WHERE active AND threshold IS NOT NULL`)
	if err != nil {
		return rules
	}
	defer rows.Close()

	for rows.Next() {
		var (
			code      string
			threshold float64
		)
		if rows.Scan(&code, &threshold) != nil {
			continue
		}
		switch code {
		case "frost":
			rules.FrostBelowC = threshold
		case "wind":
			rules.WindAboveKmh = threshold
		case "rain":
			rules.RainAboveMM = threshold
		case "heat":
			rules.HeatAboveC = threshold
		}
	}
	return rules
}

// FromSummary derives today's suggestions from the forecast. A nil
// summary yields no alerts.
func FromSummary(sum *engine.WeatherSummary, rules Rules) []Alert {
	if sum == nil {
		return nil
	}

	var out []Alert
	if sum.MinTempC <= rules.FrostBelowC {
		out = append(out, Alert{
			Code:    "frost",
			Level:   "warning",
			Title:   "Frost expected",
			Message: "Bring in or cover frost-sensitive plants.",
		})
	}
	if sum.MaxWindKmh >= rules.WindAboveKmh {
		out = append(out, Alert{
			Code:    "wind",
			Level:   "warning",
			Title:   "Strong wind expected",
			Message: "Stow loose garden items and put the car in the garage.",
		})
	}
	if sum.PrecipitationMM >= rules.RainAboveMM {
		out = append(out, Alert{
			Code:    "rain",
			Level:   "info",
			Title:   "Heavy rain expected",
			Message: "Check the gutters and keep the laundry indoors.",
		})
	}
	if sum.MaxTempC >= rules.HeatAboveC {
		out = append(out, Alert{
			Code:    "heat",
			Level:   "info",
			Title:   "Hot afternoon expected",
			Message: "Close sun-exposed shutters in the afternoon to keep the house cool.",
		})
	}
	return out
}

// Log stores triggered alerts in alert_log. Write failures are
// reported but each row is attempted; a half-written audit beats none.
func Log(ctx context.Context, db *sql.DB, alerts []Alert) error {
	var firstErr error
	for _, a := range alerts {
		_, err := db.ExecContext(ctx, `
			INSERT INTO alert_log (code, title, message, level)
			VALUES ($1, $2, $3, $4)
		`, a.Code, a.Title, a.Message, a.Level)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
