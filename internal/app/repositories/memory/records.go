package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

type timetableRepository struct {
	db *DB
}

func (r *timetableRepository) AddSlot(_ context.Context, slot *models.AssignTime, teacherID string) (bool, error) {
	r.db.Lock()
	defer r.db.Unlock()

	a, ok := r.db.assigns[slot.AssignID]
	if !ok {
		return false, apperrors.ErrAssignNotFound
	}
	if slot.Day.Index() < 0 || !models.ValidPeriod(slot.Period) {
		return false, apperrors.ErrInvalidSlot
	}

	for _, t := range r.db.times {
		if t.Day != slot.Day || t.Period != slot.Period {
			continue
		}
		if t.AssignID == slot.AssignID {
			slot.ID = t.ID
			slot.ClassID = t.ClassID
			return false, nil
		}
		if t.ClassID == a.ClassID {
			return false, apperrors.ErrSlotTaken
		}
		if other, ok := r.db.assigns[t.AssignID]; ok && other.TeacherID == teacherID {
			return false, apperrors.ErrSlotTaken
		}
	}

	slot.ID = r.db.nextID()
	slot.ClassID = a.ClassID
	cp := *slot
	r.db.times[slot.ID] = &cp
	return true, nil
}

func (r *timetableRepository) GetSlot(_ context.Context, id int64) (*models.AssignTime, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if t, ok := r.db.times[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, apperrors.ErrSlotNotFound
}

func (r *timetableRepository) RemoveSlot(_ context.Context, id int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.times[id]; !ok {
		return apperrors.ErrSlotNotFound
	}
	delete(r.db.times, id)
	return nil
}

func (r *timetableRepository) slotsWhere(keep func(*models.Assign) bool) []*models.ScheduledSlot {
	r.db.RLock()
	defer r.db.RUnlock()

	slots := []*models.ScheduledSlot{}
	for _, t := range r.db.times {
		a, ok := r.db.assigns[t.AssignID]
		if !ok || !keep(a) {
			continue
		}
		s := &models.ScheduledSlot{
			AssignTimeID: t.ID,
			AssignID:     a.ID,
			Day:          t.Day,
			Period:       t.Period,
			ClassID:      a.ClassID,
			CourseID:     a.CourseID,
			TeacherID:    a.TeacherID,
		}
		if c, ok := r.db.courses[a.CourseID]; ok {
			s.CourseName = c.Name
			s.CourseShortname = c.Shortname
		}
		if te, ok := r.db.teachers[a.TeacherID]; ok {
			s.TeacherName = te.Name
		}
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].AssignTimeID < slots[j].AssignTimeID })
	return slots
}

func (r *timetableRepository) ListByClass(_ context.Context, classID string) ([]*models.ScheduledSlot, error) {
	return r.slotsWhere(func(a *models.Assign) bool { return a.ClassID == classID }), nil
}

func (r *timetableRepository) ListByTeacher(_ context.Context, teacherID string) ([]*models.ScheduledSlot, error) {
	return r.slotsWhere(func(a *models.Assign) bool { return a.TeacherID == teacherID }), nil
}

type attendanceRepository struct {
	db *DB
}

func (r *attendanceRepository) OpenSession(_ context.Context, assignID int64, date time.Time) (*models.AttendanceClass, bool, error) {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.assigns[assignID]; !ok {
		return nil, false, apperrors.ErrAssignNotFound
	}
	date = models.TruncateDate(date)
	for _, s := range r.db.sessions {
		if s.AssignID == assignID && s.Date.Equal(date) {
			cp := *s
			return &cp, false, nil
		}
	}

	s := &models.AttendanceClass{ID: r.db.nextID(), AssignID: assignID, Date: date, Held: true}
	r.db.sessions[s.ID] = s
	cp := *s
	return &cp, true, nil
}

func (r *attendanceRepository) GetSession(_ context.Context, id int64) (*models.AttendanceClass, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if s, ok := r.db.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, apperrors.ErrSessionNotFound
}

func (r *attendanceRepository) ListSessions(_ context.Context, assignID int64) ([]*models.AttendanceClass, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	sessions := []*models.AttendanceClass{}
	for _, s := range r.db.sessions {
		if s.AssignID == assignID {
			cp := *s
			sessions = append(sessions, &cp)
		}
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Date.Before(sessions[j].Date) })
	return sessions, nil
}

func (r *attendanceRepository) SetSessionHeld(_ context.Context, session *models.AttendanceClass, courseID string, held bool) error {
	r.db.Lock()
	defer r.db.Unlock()

	s, ok := r.db.sessions[session.ID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	s.Held = held
	session.Held = held
	if held {
		return nil
	}

	var affected []string
	for k, a := range r.db.attendance {
		if a.AttendanceClassID != nil && *a.AttendanceClassID == s.ID {
			delete(r.db.attendance, k)
			affected = append(affected, a.USN)
		}
	}
	for _, usn := range affected {
		r.db.recompute(usn, courseID)
	}
	return nil
}

func (r *attendanceRepository) Mark(_ context.Context, session *models.AttendanceClass, courseID string, marks []models.AttendanceMark) error {
	r.db.Lock()
	defer r.db.Unlock()

	for _, m := range marks {
		if _, ok := r.db.students[m.USN]; !ok {
			return apperrors.ErrStudentNotFound
		}
		if !m.Status.Valid() {
			return apperrors.ErrInvalidAttendance
		}
	}

	date := models.TruncateDate(session.Date)
	sessionID := session.ID
	for _, m := range marks {
		k := attendanceKey{usn: m.USN, courseID: courseID, date: date.Format(models.DateLayout)}
		if a, ok := r.db.attendance[k]; ok {
			a.Status = m.Status
			a.AttendanceClassID = &sessionID
		} else {
			r.db.attendance[k] = &models.Attendance{
				ID:                r.db.nextID(),
				USN:               m.USN,
				CourseID:          courseID,
				AttendanceClassID: &sessionID,
				Date:              date,
				Status:            m.Status,
			}
		}
		r.db.recompute(m.USN, courseID)
	}
	return nil
}

func (r *attendanceRepository) attendanceWhere(keep func(*models.Attendance) bool) []*models.Attendance {
	r.db.RLock()
	defer r.db.RUnlock()

	rows := []*models.Attendance{}
	for _, a := range r.db.attendance {
		if keep(a) {
			cp := *a
			rows = append(rows, &cp)
		}
	}
	return rows
}

func (r *attendanceRepository) ListByStudentCourse(_ context.Context, usn, courseID string) ([]*models.Attendance, error) {
	rows := r.attendanceWhere(func(a *models.Attendance) bool { return a.USN == usn && a.CourseID == courseID })
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}

func (r *attendanceRepository) ListByStudentRange(_ context.Context, usn string, start, end time.Time) ([]*models.Attendance, error) {
	window := models.AttendanceRange{StartDate: start, EndDate: end}
	rows := r.attendanceWhere(func(a *models.Attendance) bool { return a.USN == usn && window.Contains(a.Date) })
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].CourseID < rows[j].CourseID
	})
	return rows, nil
}

func (r *attendanceRepository) ListBySession(_ context.Context, sessionID int64) ([]*models.Attendance, error) {
	rows := r.attendanceWhere(func(a *models.Attendance) bool {
		return a.AttendanceClassID != nil && *a.AttendanceClassID == sessionID
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].USN < rows[j].USN })
	return rows, nil
}

func (r *attendanceRepository) GetTotal(_ context.Context, usn, courseID string) (*models.AttendanceTotal, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if t, ok := r.db.totals[enrollmentKey{usn: usn, courseID: courseID}]; ok {
		cp := *t
		return &cp, nil
	}
	return &models.AttendanceTotal{USN: usn, CourseID: courseID}, nil
}

func (r *attendanceRepository) total(usn, courseID string) models.AttendanceTotal {
	if t, ok := r.db.totals[enrollmentKey{usn: usn, courseID: courseID}]; ok {
		return *t
	}
	return models.AttendanceTotal{USN: usn, CourseID: courseID}
}

func (r *attendanceRepository) ListCourseTotals(_ context.Context, usn string) ([]*models.CourseAttendance, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	result := []*models.CourseAttendance{}
	for k := range r.db.enrollments {
		if k.usn != usn {
			continue
		}
		c, ok := r.db.courses[k.courseID]
		if !ok {
			continue
		}
		result = append(result, &models.CourseAttendance{Course: *c, Total: r.total(usn, c.ID)})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Course.ID < result[j].Course.ID })
	return result, nil
}

func (r *attendanceRepository) ListStudentTotals(_ context.Context, classID, courseID string) ([]*models.StudentAttendance, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	result := []*models.StudentAttendance{}
	for _, s := range r.db.studentsWhere(func(s *models.Student) bool { return s.ClassID == classID }) {
		if _, ok := r.db.enrollments[enrollmentKey{usn: s.USN, courseID: courseID}]; !ok {
			continue
		}
		result = append(result, &models.StudentAttendance{Student: *s, Total: r.total(s.USN, courseID)})
	}
	return result, nil
}

func (r *attendanceRepository) SaveRange(_ context.Context, ar *models.AttendanceRange) error {
	r.db.Lock()
	defer r.db.Unlock()

	if ar.EndDate.Before(ar.StartDate) {
		return apperrors.ErrInvalidDateRange
	}
	ar.ID = r.db.nextID()
	ar.CreatedAt = now()
	cp := *ar
	r.db.ranges = append(r.db.ranges, &cp)
	return nil
}

// Ranges returns the saved report windows in insertion order
func (db *DB) Ranges() []models.AttendanceRange {
	db.RLock()
	defer db.RUnlock()

	out := make([]models.AttendanceRange, 0, len(db.ranges))
	for _, r := range db.ranges {
		out = append(out, *r)
	}
	return out
}

type marksRepository struct {
	db *DB
}

func (r *marksRepository) nameTaken(c *models.MarksClass) bool {
	for _, other := range r.db.components {
		if other.ID != c.ID && other.AssignID == c.AssignID && other.Name == c.Name {
			return true
		}
	}
	return false
}

func (r *marksRepository) CreateComponent(_ context.Context, component *models.MarksClass) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.assigns[component.AssignID]; !ok {
		return apperrors.ErrAssignNotFound
	}
	if r.nameTaken(component) {
		return apperrors.NewValidationError("name", "a component with this name already exists for the assignment")
	}
	component.ID = r.db.nextID()
	cp := *component
	r.db.components[component.ID] = &cp
	return nil
}

func (r *marksRepository) GetComponent(_ context.Context, id int64) (*models.MarksClass, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if c, ok := r.db.components[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, apperrors.ErrComponentNotFound
}

func (r *marksRepository) UpdateComponent(_ context.Context, component *models.MarksClass) error {
	r.db.Lock()
	defer r.db.Unlock()

	c, ok := r.db.components[component.ID]
	if !ok {
		return apperrors.ErrComponentNotFound
	}
	if r.nameTaken(component) {
		return apperrors.NewValidationError("name", "a component with this name already exists for the assignment")
	}
	c.Name = component.Name
	c.TotalMarks = component.TotalMarks
	c.Published = component.Published
	return nil
}

func (r *marksRepository) ListComponents(_ context.Context, assignID int64) ([]*models.MarksClass, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	components := []*models.MarksClass{}
	for _, c := range r.db.components {
		if c.AssignID == assignID {
			cp := *c
			components = append(components, &cp)
		}
	}
	sort.Slice(components, func(i, j int) bool { return components[i].ID < components[j].ID })
	return components, nil
}

func (r *marksRepository) Enter(_ context.Context, componentID int64, entries []models.MarksEntry) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.components[componentID]; !ok {
		return apperrors.ErrComponentNotFound
	}
	for _, e := range entries {
		if _, ok := r.db.students[e.USN]; !ok {
			return apperrors.ErrStudentNotFound
		}
	}
	for _, e := range entries {
		k := marksKey{usn: e.USN, componentID: componentID}
		if m, ok := r.db.marks[k]; ok {
			m.Marks = e.Marks
			continue
		}
		r.db.marks[k] = &models.Marks{ID: r.db.nextID(), USN: e.USN, MarksClassID: componentID, Marks: e.Marks}
	}
	return nil
}

func (r *marksRepository) ListByComponent(_ context.Context, componentID int64) ([]*models.Marks, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	marks := []*models.Marks{}
	for _, m := range r.db.marks {
		if m.MarksClassID == componentID {
			cp := *m
			marks = append(marks, &cp)
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].USN < marks[j].USN })
	return marks, nil
}

func (r *marksRepository) ListStudentScores(_ context.Context, usn, courseID string, publishedOnly bool) ([]*models.ComponentScore, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	scores := []*models.ComponentScore{}
	s, ok := r.db.students[usn]
	if !ok {
		return scores, nil
	}

	for _, c := range r.db.components {
		a, ok := r.db.assigns[c.AssignID]
		if !ok || a.ClassID != s.ClassID {
			continue
		}
		if courseID != "" && a.CourseID != courseID {
			continue
		}
		if _, enrolled := r.db.enrollments[enrollmentKey{usn: usn, courseID: a.CourseID}]; !enrolled {
			continue
		}
		if publishedOnly && !c.Published {
			continue
		}

		score := &models.ComponentScore{Component: *c, CourseID: a.CourseID}
		if m, ok := r.db.marks[marksKey{usn: usn, componentID: c.ID}]; ok {
			v := m.Marks
			score.Marks = &v
		}
		scores = append(scores, score)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].CourseID != scores[j].CourseID {
			return scores[i].CourseID < scores[j].CourseID
		}
		return scores[i].Component.ID < scores[j].Component.ID
	})
	return scores, nil
}
