package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func dayPtr(d Weekday) *Weekday { return &d }

// fairTuesday is a quiet context: fair weather, Tuesday 10:00 in June.
func fairTuesday() EnvironmentContext {
	return BuildContext(time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC), nil)
}

func recurring(interval, hygiene, base int) Task {
	return Task{
		ID:              1,
		Name:            "Vacuum floor",
		Room:            "Living room",
		IntervalDays:    interval,
		HygienePriority: hygiene,
		PriorityBase:    base,
		Category:        CategoryOther,
		Active:          true,
	}
}

func TestEvaluateNeverDoneRecurring(t *testing.T) {
	task := recurring(7, 4, 50)

	v := Evaluate(task, nil, fairTuesday())

	require.True(t, v.Visible)
	assert.Equal(t, 50+4*10+(999-7)*5, v.Score)
	assert.Equal(t, 5050, v.Score)
	assert.Equal(t, ReasonOverdue, v.Reason)
	assert.Equal(t, "overdue by 992 days", v.Text())
	assert.Equal(t, "now", v.NextDue())
}

func TestEvaluateNeverDoneOneOff(t *testing.T) {
	task := recurring(0, 3, 60)

	v := Evaluate(task, nil, fairTuesday())

	require.True(t, v.Visible)
	assert.Equal(t, 60+3*10, v.Score)
	assert.Equal(t, ReasonNeverDone, v.Reason)
	assert.Equal(t, "never done (one-off)", v.Text())
	assert.Equal(t, "as soon as possible", v.NextDue())
}

func TestEvaluateDormant(t *testing.T) {
	task := recurring(0, 3, 50)
	task.Active = false

	v := Evaluate(task, intPtr(5), fairTuesday())

	assert.False(t, v.Visible)
	assert.Equal(t, ReasonDormant, v.Reason)
	assert.Equal(t, "on demand", v.NextDue())
}

func TestEvaluateNightGate(t *testing.T) {
	task := recurring(7, 3, 50)
	task.AvoidNight = true

	for _, hour := range []int{20, 23, 0, 6} {
		ctx := fairTuesday()
		ctx.Hour = hour
		v := Evaluate(task, nil, ctx)
		assert.False(t, v.Visible, "hour %d should be gated", hour)
		assert.Equal(t, ReasonNight, v.Reason)
		assert.Equal(t, "tomorrow morning", v.NextDue())
	}

	for _, hour := range []int{7, 12, 19} {
		ctx := fairTuesday()
		ctx.Hour = hour
		v := Evaluate(task, nil, ctx)
		assert.True(t, v.Visible, "hour %d should pass", hour)
	}
}

func TestEvaluateWinterGate(t *testing.T) {
	task := recurring(7, 3, 50)
	task.AvoidFrost = true
	task.Category = CategoryWatering

	for _, month := range []time.Month{time.December, time.January, time.February} {
		ctx := fairTuesday()
		ctx.Month = month
		v := Evaluate(task, nil, ctx)
		assert.False(t, v.Visible, "month %s should be gated", month)
		assert.Equal(t, ReasonWinter, v.Reason)
		assert.Equal(t, "next spring", v.NextDue())
	}

	// Outside winter the gate does not fire.
	v := Evaluate(task, nil, fairTuesday())
	assert.True(t, v.Visible)

	// Non-gardening tasks stay visible even in winter.
	ctx := fairTuesday()
	ctx.Month = time.January
	task.Category = CategoryOther
	v = Evaluate(task, nil, ctx)
	assert.True(t, v.Visible)
}

func TestEvaluateWeatherGates(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*Task, *EnvironmentContext)
		reason ReasonCode
	}{
		{"rain", func(task *Task, ctx *EnvironmentContext) {
			task.AvoidRain = true
			ctx.Raining = true
		}, ReasonRain},
		{"wind", func(task *Task, ctx *EnvironmentContext) {
			task.AvoidWind = true
			ctx.Windy = true
		}, ReasonWind},
		{"frost", func(task *Task, ctx *EnvironmentContext) {
			task.AvoidFrost = true
			ctx.Freezing = true
		}, ReasonFrost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := recurring(7, 5, 90)
			ctx := fairTuesday()
			tt.adjust(&task, &ctx)

			v := Evaluate(task, nil, ctx)

			assert.False(t, v.Visible)
			assert.Equal(t, tt.reason, v.Reason)
			assert.Equal(t, "as soon as it clears", v.NextDue())
		})
	}
}

func TestEvaluateGateWithoutFlagPasses(t *testing.T) {
	task := recurring(7, 3, 50)
	ctx := fairTuesday()
	ctx.Raining = true
	ctx.Windy = true
	ctx.Freezing = true

	v := Evaluate(task, nil, ctx)

	assert.True(t, v.Visible)
}

func TestEvaluateWeekdayPin(t *testing.T) {
	task := recurring(7, 3, 50)
	task.TargetWeekday = dayPtr(Friday)

	friday := fairTuesday()
	friday.Weekday = int(Friday)
	v := Evaluate(task, nil, friday)
	require.True(t, v.Visible)
	assert.Equal(t, 1000, v.Score)
	assert.Equal(t, ReasonWeekdayMatch, v.Reason)
	assert.Equal(t, "today is the day", v.Text())
	assert.Equal(t, "today", v.NextDue())

	thursday := fairTuesday()
	thursday.Weekday = int(Thursday)
	v = Evaluate(task, nil, thursday)
	assert.False(t, v.Visible)
	assert.Equal(t, ReasonWrongWeekday, v.Reason)
	assert.Equal(t, "scheduled for Friday", v.Text())
	assert.Equal(t, "in 1 days", v.NextDue())

	saturday := fairTuesday()
	saturday.Weekday = int(Saturday)
	v = Evaluate(task, nil, saturday)
	assert.Equal(t, 6, v.Days)
}

func TestEvaluateDoneToday(t *testing.T) {
	task := recurring(7, 3, 50)

	v := Evaluate(task, intPtr(0), fairTuesday())

	assert.False(t, v.Visible)
	assert.Equal(t, ReasonDoneToday, v.Reason)
	assert.Equal(t, "in 7 days", v.NextDue())
}

func TestEvaluateDueBoundary(t *testing.T) {
	task := recurring(7, 3, 50)

	// One day short of the interval: not yet due.
	v := Evaluate(task, intPtr(6), fairTuesday())
	assert.False(t, v.Visible)
	assert.Equal(t, ReasonNotYetDue, v.Reason)
	assert.Equal(t, "in 1 days", v.NextDue())

	// Exactly at the interval: due with zero backlog.
	v = Evaluate(task, intPtr(7), fairTuesday())
	require.True(t, v.Visible)
	assert.Equal(t, ReasonOverdue, v.Reason)
	assert.Equal(t, 0, v.Days)
	assert.Equal(t, 50+3*10, v.Score)
}

func TestEvaluateOverdueMonotonicity(t *testing.T) {
	task := recurring(7, 3, 50)
	ctx := fairTuesday()

	prev := Evaluate(task, intPtr(7), ctx).Score
	for k := 1; k <= 5; k++ {
		score := Evaluate(task, intPtr(7+k), ctx).Score
		assert.Equal(t, prev+5, score, "each extra day adds 5")
		prev = score
	}
}

func TestEvaluateReactivatedOneOff(t *testing.T) {
	// One-off with history but still active: the one-off branch fires,
	// not the recurring done-today branch.
	task := recurring(0, 3, 50)

	v := Evaluate(task, intPtr(0), fairTuesday())

	require.True(t, v.Visible)
	assert.Equal(t, 900, v.Score)
	assert.Equal(t, ReasonReactivated, v.Reason)
	assert.Equal(t, "reactivated one-off task", v.Text())
}

func TestEvaluateIsPure(t *testing.T) {
	task := recurring(7, 4, 50)
	task.AvoidRain = true
	ctx := fairTuesday()

	first := Evaluate(task, intPtr(12), ctx)
	second := Evaluate(task, intPtr(12), ctx)

	assert.Equal(t, first, second)
}

func TestEvaluateGateOrder(t *testing.T) {
	// A dormant task is reported dormant even when every other gate
	// would also fire.
	task := recurring(7, 3, 50)
	task.Active = false
	task.AvoidNight = true
	task.AvoidRain = true
	ctx := fairTuesday()
	ctx.Hour = 23
	ctx.Raining = true

	v := Evaluate(task, nil, ctx)
	assert.Equal(t, ReasonDormant, v.Reason)

	// Night beats weather.
	task.Active = true
	v = Evaluate(task, nil, ctx)
	assert.Equal(t, ReasonNight, v.Reason)

	// Weather beats the weekday pin.
	ctx.Hour = 10
	task.TargetWeekday = dayPtr(Weekday(ctx.Weekday))
	v = Evaluate(task, nil, ctx)
	assert.Equal(t, ReasonRain, v.Reason)
}
