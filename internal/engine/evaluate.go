package engine

import "time"

const (
	// overdueSentinel stands in for "no completion on record" when
	// scoring a recurring task: old enough to dominate any real backlog.
	overdueSentinel = 999

	nightStartHour = 20
	nightEndHour   = 7

	weekdayPinScore  = 1000
	reactivatedScore = 900
	hygieneWeight    = 10
	delayWeight      = 5
)

// Evaluate runs the gating and scoring sequence for one task against
// one context. daysSince is the whole-day age of the most recent
// completion, nil when the task was never done. Pure: identical inputs
// yield identical verdicts.
func Evaluate(task Task, daysSince *int, ctx EnvironmentContext) Verdict {
	if !task.Active {
		return Verdict{Reason: ReasonDormant}
	}
	if task.AvoidNight && (ctx.Hour >= nightStartHour || ctx.Hour < nightEndHour) {
		return Verdict{Reason: ReasonNight}
	}
	if task.AvoidFrost && winterMonth(ctx.Month) &&
		(task.Category == CategoryWatering || task.Category == CategoryMowing) {
		return Verdict{Reason: ReasonWinter}
	}
	if task.AvoidRain && ctx.Raining {
		return Verdict{Reason: ReasonRain}
	}
	if task.AvoidWind && ctx.Windy {
		return Verdict{Reason: ReasonWind}
	}
	if task.AvoidFrost && ctx.Freezing {
		return Verdict{Reason: ReasonFrost}
	}

	if task.TargetWeekday != nil {
		day := *task.TargetWeekday
		if int(day) != ctx.Weekday {
			wait := (int(day) - ctx.Weekday + 7) % 7
			if wait == 0 {
				wait = 7
			}
			return Verdict{Reason: ReasonWrongWeekday, Days: wait, Day: day}
		}
		// Pinned tasks outrank any interval-scored task.
		return Verdict{Visible: true, Score: weekdayPinScore, Reason: ReasonWeekdayMatch, Day: day}
	}

	if task.OneOff() {
		if daysSince == nil {
			return Verdict{
				Visible: true,
				Score:   task.PriorityBase + task.HygienePriority*hygieneWeight,
				Reason:  ReasonNeverDone,
			}
		}
		// Completed before but still awake: manual-override path, the
		// normal flow deactivates a one-off on completion.
		return Verdict{Visible: true, Score: reactivatedScore, Reason: ReasonReactivated}
	}

	if daysSince != nil && *daysSince == 0 {
		return Verdict{Reason: ReasonDoneToday, Days: task.IntervalDays}
	}
	elapsed := overdueSentinel
	if daysSince != nil {
		elapsed = *daysSince
	}
	delay := elapsed - task.IntervalDays
	if delay < 0 {
		return Verdict{Reason: ReasonNotYetDue, Days: -delay}
	}
	return Verdict{
		Visible: true,
		Score:   task.PriorityBase + task.HygienePriority*hygieneWeight + delay*delayWeight,
		Reason:  ReasonOverdue,
		Days:    delay,
	}
}

func winterMonth(m time.Month) bool {
	return m == time.December || m == time.January || m == time.February
}
