package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"majordome-backend/internal/alerts"
	"majordome-backend/internal/engine"
)

func TestBuildDigest(t *testing.T) {
	items := []engine.RankedItem{
		{
			Task:    engine.Task{Name: "Take out bins", Room: "Outside"},
			Verdict: engine.Verdict{Visible: true, Score: 1000, Reason: engine.ReasonWeekdayMatch, Day: engine.Tuesday},
		},
		{
			Task:    engine.Task{Name: "Mop <floor>", Room: "Kitchen"},
			Verdict: engine.Verdict{Visible: true, Score: 120, Reason: engine.ReasonOverdue, Days: 6},
		},
	}
	weatherAlerts := []alerts.Alert{
		{Code: "frost", Level: "warning", Title: "Frost expected", Message: "Bring in or cover frost-sensitive plants."},
	}

	text := BuildDigest(items, weatherAlerts, "min -1.0°C, max 6.0°C, wind max 20.0 km/h, rain 0.0 mm")

	assert.Contains(t, text, "<b>Household digest</b>")
	assert.Contains(t, text, "min -1.0°C")
	assert.Contains(t, text, "Frost expected")
	assert.Contains(t, text, "1. [P1] <b>Take out bins</b> (Outside) — today is the day, today")
	assert.Contains(t, text, "2. [P3] <b>Mop &lt;floor&gt;</b> (Kitchen) — overdue by 6 days, now")
}

func TestBuildDigestEmpty(t *testing.T) {
	text := BuildDigest(nil, nil, "no weather data")

	assert.Contains(t, text, "Nothing needs attention today.")
	assert.NotContains(t, text, "<b>Alerts</b>")
	assert.NotContains(t, text, "<b>Tasks</b>")
}
