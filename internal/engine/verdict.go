package engine

import "fmt"

// ReasonCode tags why a task is (or is not) surfaced. Human wording is
// rendered at the boundary so verdicts compare by code, not substring.
type ReasonCode string

const (
	ReasonDormant      ReasonCode = "dormant"
	ReasonNight        ReasonCode = "night"
	ReasonWinter       ReasonCode = "winter"
	ReasonRain         ReasonCode = "rain"
	ReasonWind         ReasonCode = "wind"
	ReasonFrost        ReasonCode = "frost"
	ReasonWrongWeekday ReasonCode = "wrong_weekday"
	ReasonNotYetDue    ReasonCode = "not_yet_due"
	ReasonDoneToday    ReasonCode = "done_today"
	ReasonOverdue      ReasonCode = "overdue"
	ReasonNeverDone    ReasonCode = "never_done"
	ReasonWeekdayMatch ReasonCode = "weekday_match"
	ReasonReactivated  ReasonCode = "reactivated"
)

// Verdict is the evaluator's answer for one (task, context) pair.
// Constructed per evaluation, consumed by the ranker, never persisted.
type Verdict struct {
	Visible bool
	Score   int
	Reason  ReasonCode

	// Days carries the reason's day parameter: overdue backlog for
	// ReasonOverdue, remaining wait for ReasonNotYetDue, ReasonDoneToday
	// and ReasonWrongWeekday. Zero otherwise.
	Days int

	// Day is the pinned weekday for the weekday reasons.
	Day Weekday
}

// Text renders the human explanation for the verdict.
func (v Verdict) Text() string {
	switch v.Reason {
	case ReasonDormant:
		return "dormant one-off task"
	case ReasonNight:
		return "deferred: nighttime"
	case ReasonWinter:
		return "deferred: winter season"
	case ReasonRain:
		return "deferred: raining"
	case ReasonWind:
		return "deferred: too windy"
	case ReasonFrost:
		return "deferred: frost risk"
	case ReasonWrongWeekday:
		return "scheduled for " + v.Day.String()
	case ReasonNotYetDue:
		return "not yet due"
	case ReasonDoneToday:
		return "already done today"
	case ReasonOverdue:
		return fmt.Sprintf("overdue by %d days", v.Days)
	case ReasonNeverDone:
		return "never done (one-off)"
	case ReasonWeekdayMatch:
		return "today is the day"
	case ReasonReactivated:
		return "reactivated one-off task"
	}
	return string(v.Reason)
}

// NextDue renders the rough next-eligible estimate.
func (v Verdict) NextDue() string {
	switch v.Reason {
	case ReasonDormant:
		return "on demand"
	case ReasonNight:
		return "tomorrow morning"
	case ReasonWinter:
		return "next spring"
	case ReasonRain, ReasonWind, ReasonFrost:
		return "as soon as it clears"
	case ReasonWrongWeekday, ReasonNotYetDue, ReasonDoneToday:
		return fmt.Sprintf("in %d days", v.Days)
	case ReasonOverdue:
		return "now"
	case ReasonNeverDone, ReasonReactivated:
		return "as soon as possible"
	case ReasonWeekdayMatch:
		return "today"
	}
	return ""
}
