package models

// Timetable is the fixed Days x PeriodsPerDay weekly grid
type Timetable struct {
	Rows []TimetableRow
}

// TimetableRow is one weekday of the grid; a nil cell is an unscheduled period
type TimetableRow struct {
	Day     Day
	Periods [PeriodsPerDay]*ScheduledSlot
}

// BuildTimetable places slots into an empty grid. When two slots claim
// the same cell the one with the lower AssignTimeID wins.
func BuildTimetable(slots []*ScheduledSlot) *Timetable {
	tt := &Timetable{Rows: make([]TimetableRow, len(Days))}
	for i, d := range Days {
		tt.Rows[i].Day = d
	}

	for _, s := range slots {
		di := s.Day.Index()
		if di < 0 || !ValidPeriod(s.Period) {
			continue
		}
		cell := &tt.Rows[di].Periods[s.Period-1]
		if *cell == nil || s.AssignTimeID < (*cell).AssignTimeID {
			*cell = s
		}
	}
	return tt
}

// Row returns the row for d, or nil
func (t *Timetable) Row(d Day) *TimetableRow {
	i := d.Index()
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	return &t.Rows[i]
}
