package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceTotalDerivedValues(t *testing.T) {
	tests := []struct {
		name            string
		attended, total int
		wantPct         float64
		wantToAttend    int
	}{
		{"nothing held", 0, 0, 0, 0},
		{"all present", 1, 1, 100, 0},
		{"two of three", 2, 3, 66.67, 1},
		{"one of four", 1, 4, 25, 8},
		{"exactly required", 3, 4, 75, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := AttendanceTotal{Attended: tt.attended, Total: tt.total}
			assert.Equal(t, tt.wantPct, total.Percentage())
			assert.Equal(t, tt.wantToAttend, total.ClassesToAttend())
		})
	}
}

func TestNewAttendanceTotalIgnoresOtherPairs(t *testing.T) {
	rows := []*Attendance{
		{USN: "S1", CourseID: "C1", Status: StatusPresent},
		{USN: "S1", CourseID: "C1", Status: StatusAbsent},
		{USN: "S1", CourseID: "C2", Status: StatusPresent},
		{USN: "S2", CourseID: "C1", Status: StatusPresent},
	}

	got := NewAttendanceTotal("S1", "C1", rows)
	assert.Equal(t, 1, got.Attended)
	assert.Equal(t, 2, got.Total)
}

func TestAttendanceRangeContains(t *testing.T) {
	start, _ := ParseDate("2025-01-01")
	end, _ := ParseDate("2025-01-31")
	r := AttendanceRange{StartDate: start, EndDate: end}

	assert.True(t, r.Contains(start))
	assert.True(t, r.Contains(end.Add(23*time.Hour)))
	assert.False(t, r.Contains(end.AddDate(0, 0, 1)))
	assert.False(t, r.Contains(start.AddDate(0, 0, -1)))
}

func TestParseDayAndPeriod(t *testing.T) {
	d, ok := ParseDay("tuesday")
	require.True(t, ok)
	assert.Equal(t, Tuesday, d)
	assert.Equal(t, 1, d.Index())

	_, ok = ParseDay("Sunday")
	assert.False(t, ok)

	assert.True(t, ValidPeriod(1))
	assert.True(t, ValidPeriod(8))
	assert.False(t, ValidPeriod(0))
	assert.False(t, ValidPeriod(9))
}

func TestBuildTimetable(t *testing.T) {
	slots := []*ScheduledSlot{
		{AssignTimeID: 2, Day: Monday, Period: 1, CourseID: "CS510"},
		{AssignTimeID: 1, Day: Monday, Period: 1, CourseID: "CS520"},
		{AssignTimeID: 3, Day: Saturday, Period: 8, CourseID: "CS530"},
		{AssignTimeID: 4, Day: "Sunday", Period: 1, CourseID: "XX"},
	}

	tt := BuildTimetable(slots)
	require.Len(t, tt.Rows, 6)

	monday := tt.Row(Monday)
	require.NotNil(t, monday)
	require.NotNil(t, monday.Periods[0])
	assert.Equal(t, "CS520", monday.Periods[0].CourseID)
	assert.Nil(t, monday.Periods[1])

	assert.Equal(t, "CS530", tt.Row(Saturday).Periods[7].CourseID)
}

func TestDefaultTotalFor(t *testing.T) {
	assert.Equal(t, 20, DefaultTotalFor("Internal test 2"))
	assert.Equal(t, 10, DefaultTotalFor("Event 1"))
	assert.Equal(t, 100, DefaultTotalFor(ComponentSemesterEnd))
	assert.Equal(t, 100, DefaultTotalFor("Midterm"))
}

func TestClassDisplayName(t *testing.T) {
	c := Class{ID: "CS5A", Sem: 5, Section: "A"}
	assert.Equal(t, "CS5A", c.DisplayName())

	c.Dept = &Dept{ID: "CS", Name: "Computer Science"}
	assert.Equal(t, "Computer Science : 5 A", c.DisplayName())
}
