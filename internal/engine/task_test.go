package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	for i, name := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		d, err := ParseWeekday(name)
		require.NoError(t, err)
		assert.Equal(t, Weekday(i), d)
	}

	d, err := ParseWeekday("  Friday ")
	require.NoError(t, err)
	assert.Equal(t, Friday, d)

	_, err = ParseWeekday("someday")
	assert.Error(t, err)
	_, err = ParseWeekday("")
	assert.Error(t, err)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("watering")
	require.NoError(t, err)
	assert.Equal(t, CategoryWatering, c)

	c, err = ParseCategory("Mowing")
	require.NoError(t, err)
	assert.Equal(t, CategoryMowing, c)

	c, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, CategoryOther, c)

	_, err = ParseCategory("laundry")
	assert.Error(t, err)
}

func TestTaskValidate(t *testing.T) {
	ok := Task{Name: "Dust shelves", IntervalDays: 7, HygienePriority: 3, PriorityBase: 50, Active: true}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.IntervalDays = -1
	assert.Error(t, bad.Validate())

	bad = ok
	bad.HygienePriority = -2
	assert.Error(t, bad.Validate())

	bad = ok
	out := Weekday(9)
	bad.TargetWeekday = &out
	assert.Error(t, bad.Validate())
}

func TestTaskOneOff(t *testing.T) {
	assert.True(t, Task{IntervalDays: 0}.OneOff())
	assert.False(t, Task{IntervalDays: 7}.OneOff())
}
