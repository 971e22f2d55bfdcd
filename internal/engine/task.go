package engine

import (
	"fmt"
	"strings"
)

// Category classifies a task for the seasonal gate. It is set once when
// the task is created; the engine never infers it from the task name.
type Category string

const (
	CategoryWatering Category = "watering"
	CategoryMowing   Category = "mowing"
	CategoryOther    Category = "other"
)

func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryWatering:
		return CategoryWatering, nil
	case CategoryMowing:
		return CategoryMowing, nil
	case CategoryOther, "":
		return CategoryOther, nil
	}
	return "", fmt.Errorf("unknown task category %q", s)
}

// Weekday uses the same convention as EnvironmentContext: 0=Monday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

func ParseWeekday(s string) (Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range weekdayNames {
		if strings.ToLower(n) == name {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// Task is the immutable snapshot the engine scores. Defaults (priority
// base 50, active true) are resolved at the repository boundary, so a
// snapshot always carries concrete values.
type Task struct {
	ID   int64
	Name string
	Room string

	// IntervalDays is the recurrence period; 0 marks a one-off task.
	IntervalDays    int
	HygienePriority int
	PriorityBase    int

	AvoidRain  bool
	AvoidWind  bool
	AvoidSnow  bool
	AvoidFrost bool
	AvoidNight bool

	// TargetWeekday pins the task to one day per week and takes
	// precedence over interval scoring.
	TargetWeekday *Weekday

	Category Category

	// Active doubles as lifecycle flag and scheduling gate: a completed
	// one-off task is set inactive and stays hidden until reactivated.
	Active bool
}

// Validate rejects snapshots the evaluator must never see. Evaluate
// assumes already-validated inputs and does not coerce.
func (t Task) Validate() error {
	if t.IntervalDays < 0 {
		return fmt.Errorf("task %q: negative recurrence interval %d", t.Name, t.IntervalDays)
	}
	if t.HygienePriority < 0 {
		return fmt.Errorf("task %q: negative hygiene priority %d", t.Name, t.HygienePriority)
	}
	if t.TargetWeekday != nil && (*t.TargetWeekday < Monday || *t.TargetWeekday > Sunday) {
		return fmt.Errorf("task %q: weekday out of range %d", t.Name, int(*t.TargetWeekday))
	}
	return nil
}

// OneOff reports whether the task has no recurrence interval.
func (t Task) OneOff() bool { return t.IntervalDays == 0 }
