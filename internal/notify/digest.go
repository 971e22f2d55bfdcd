package notify

import (
	"fmt"
	"html"
	"strings"

	"majordome-backend/internal/alerts"
	"majordome-backend/internal/engine"
)

// BuildDigest formats the daily audit as one HTML message: weather
// line, triggered alerts, then the ranked task window.
func BuildDigest(items []engine.RankedItem, weatherAlerts []alerts.Alert, weatherText string) string {
	var b strings.Builder

	b.WriteString("<b>Household digest</b>\n")
	b.WriteString(html.EscapeString(weatherText))
	b.WriteString("\n")

	if len(weatherAlerts) > 0 {
		b.WriteString("\n<b>Alerts</b>\n")
		for _, a := range weatherAlerts {
			fmt.Fprintf(&b, "⚠ %s — %s\n", html.EscapeString(a.Title), html.EscapeString(a.Message))
		}
	}

	if len(items) == 0 {
		b.WriteString("\nNothing needs attention today.\n")
		return b.String()
	}

	b.WriteString("\n<b>Tasks</b>\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. [%s] <b>%s</b> (%s) — %s, %s\n",
			i+1,
			engine.Tier(item.Verdict.Score),
			html.EscapeString(item.Task.Name),
			html.EscapeString(item.Task.Room),
			html.EscapeString(item.Verdict.Text()),
			html.EscapeString(item.Verdict.NextDue()),
		)
	}
	return b.String()
}
