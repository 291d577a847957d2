package memory

import (
	"context"
	"sort"

	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

type teacherRepository struct {
	db *DB
}

func (r *teacherRepository) Create(_ context.Context, teacher *models.Teacher, newUser *models.User) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.teachers[teacher.ID]; ok {
		return apperrors.ErrDuplicateID
	}
	if _, ok := r.db.depts[teacher.DeptID]; !ok {
		return apperrors.ErrDeptNotFound
	}

	if newUser != nil {
		if err := r.db.insertUser(newUser); err != nil {
			return err
		}
		teacher.UserID = newUser.ID
	} else if _, ok := r.db.users[teacher.UserID]; !ok {
		return apperrors.ErrUserNotFound
	}

	for _, s := range r.db.students {
		if s.UserID == teacher.UserID {
			r.rollbackUser(newUser)
			return apperrors.ErrProfileKindClash
		}
	}
	for _, t := range r.db.teachers {
		if t.UserID == teacher.UserID {
			r.rollbackUser(newUser)
			return apperrors.NewValidationError("user_id", "already linked to a teacher")
		}
	}

	cp := *teacher
	r.db.teachers[teacher.ID] = &cp
	return nil
}

func (r *teacherRepository) rollbackUser(u *models.User) {
	if u != nil {
		delete(r.db.users, u.ID)
	}
}

func (r *teacherRepository) GetByID(_ context.Context, id string) (*models.Teacher, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if t, ok := r.db.teachers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, apperrors.ErrTeacherNotFound
}

func (r *teacherRepository) GetByUserID(_ context.Context, userID int64) (*models.Teacher, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	for _, t := range r.db.teachers {
		if t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, apperrors.ErrTeacherNotFound
}

func (r *teacherRepository) List(_ context.Context) ([]*models.Teacher, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	teachers := make([]*models.Teacher, 0, len(r.db.teachers))
	for _, t := range r.db.teachers {
		cp := *t
		teachers = append(teachers, &cp)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return teachers, nil
}

func (r *teacherRepository) Update(_ context.Context, teacher *models.Teacher) error {
	r.db.Lock()
	defer r.db.Unlock()

	t, ok := r.db.teachers[teacher.ID]
	if !ok {
		return apperrors.ErrTeacherNotFound
	}
	if _, ok := r.db.depts[teacher.DeptID]; !ok {
		return apperrors.ErrDeptNotFound
	}
	t.DeptID = teacher.DeptID
	t.Name = teacher.Name
	t.Sex = teacher.Sex
	t.DOB = teacher.DOB
	return nil
}

type studentRepository struct {
	db *DB
}

// enrollInClassCourses mirrors the post-save enrollment of a student; callers hold the write lock
func (db *DB) enrollInClassCourses(usn, classID string) {
	for _, a := range db.assigns {
		if a.ClassID == classID {
			db.enroll(usn, a.CourseID)
		}
	}
}

func (r *studentRepository) Create(_ context.Context, student *models.Student, newUser *models.User) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.students[student.USN]; ok {
		return apperrors.ErrDuplicateID
	}
	if _, ok := r.db.classes[student.ClassID]; !ok {
		return apperrors.ErrClassNotFound
	}

	if newUser != nil {
		if err := r.db.insertUser(newUser); err != nil {
			return err
		}
		student.UserID = newUser.ID
	} else if _, ok := r.db.users[student.UserID]; !ok {
		return apperrors.ErrUserNotFound
	}

	rollback := func() {
		if newUser != nil {
			delete(r.db.users, newUser.ID)
		}
	}
	for _, t := range r.db.teachers {
		if t.UserID == student.UserID {
			rollback()
			return apperrors.ErrProfileKindClash
		}
	}
	for _, s := range r.db.students {
		if s.UserID == student.UserID {
			rollback()
			return apperrors.NewValidationError("user_id", "already linked to a student")
		}
	}

	cp := *student
	r.db.students[student.USN] = &cp
	r.db.enrollInClassCourses(student.USN, student.ClassID)
	return nil
}

func (r *studentRepository) GetByUSN(_ context.Context, usn string) (*models.Student, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if s, ok := r.db.students[usn]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *studentRepository) GetByUserID(_ context.Context, userID int64) (*models.Student, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	for _, s := range r.db.students {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

// studentsWhere returns copies ordered by USN; callers hold a lock
func (db *DB) studentsWhere(keep func(*models.Student) bool) []*models.Student {
	students := []*models.Student{}
	for _, s := range db.students {
		if keep(s) {
			cp := *s
			students = append(students, &cp)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].USN < students[j].USN })
	return students
}

func (r *studentRepository) List(_ context.Context) ([]*models.Student, error) {
	r.db.RLock()
	defer r.db.RUnlock()
	return r.db.studentsWhere(func(*models.Student) bool { return true }), nil
}

func (r *studentRepository) ListByClass(_ context.Context, classID string) ([]*models.Student, error) {
	r.db.RLock()
	defer r.db.RUnlock()
	return r.db.studentsWhere(func(s *models.Student) bool { return s.ClassID == classID }), nil
}

func (r *studentRepository) Update(_ context.Context, student *models.Student) error {
	r.db.Lock()
	defer r.db.Unlock()

	s, ok := r.db.students[student.USN]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := r.db.classes[student.ClassID]; !ok {
		return apperrors.ErrClassNotFound
	}
	s.ClassID = student.ClassID
	s.Name = student.Name
	s.Sex = student.Sex
	s.DOB = student.DOB
	r.db.enrollInClassCourses(s.USN, s.ClassID)
	return nil
}

type enrollmentRepository struct {
	db *DB
}

func (r *enrollmentRepository) Enroll(_ context.Context, usn, courseID string) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.students[usn]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := r.db.courses[courseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	r.db.enroll(usn, courseID)
	return nil
}

func (r *enrollmentRepository) Unenroll(_ context.Context, usn, courseID string) error {
	r.db.Lock()
	defer r.db.Unlock()

	k := enrollmentKey{usn: usn, courseID: courseID}
	if _, ok := r.db.enrollments[k]; !ok {
		return apperrors.ErrNotEnrolled
	}
	delete(r.db.enrollments, k)
	return nil
}

func (r *enrollmentRepository) IsEnrolled(_ context.Context, usn, courseID string) (bool, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	_, ok := r.db.enrollments[enrollmentKey{usn: usn, courseID: courseID}]
	return ok, nil
}

func (r *enrollmentRepository) ListCourses(_ context.Context, usn string) ([]*models.Course, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	courses := []*models.Course{}
	for k := range r.db.enrollments {
		if k.usn != usn {
			continue
		}
		if c, ok := r.db.courses[k.courseID]; ok {
			cp := *c
			courses = append(courses, &cp)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r *enrollmentRepository) ListStudents(_ context.Context, classID, courseID string) ([]*models.Student, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	return r.db.studentsWhere(func(s *models.Student) bool {
		_, enrolled := r.db.enrollments[enrollmentKey{usn: s.USN, courseID: courseID}]
		return s.ClassID == classID && enrolled
	}), nil
}

type assignRepository struct {
	db *DB
}

func (r *assignRepository) Create(_ context.Context, assign *models.Assign) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.classes[assign.ClassID]; !ok {
		return apperrors.ErrClassNotFound
	}
	if _, ok := r.db.courses[assign.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if _, ok := r.db.teachers[assign.TeacherID]; !ok {
		return apperrors.ErrTeacherNotFound
	}
	for _, a := range r.db.assigns {
		if a.ClassID == assign.ClassID && a.CourseID == assign.CourseID {
			return apperrors.NewValidationError("course_id", "course is already assigned for this class")
		}
	}

	assign.ID = r.db.nextID()
	r.db.assigns[assign.ID] = &models.Assign{
		ID: assign.ID, ClassID: assign.ClassID, CourseID: assign.CourseID, TeacherID: assign.TeacherID,
	}
	for _, s := range r.db.students {
		if s.ClassID == assign.ClassID {
			r.db.enroll(s.USN, assign.CourseID)
		}
	}
	return nil
}

func (r *assignRepository) GetByID(_ context.Context, id int64) (*models.Assign, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if a, ok := r.db.assigns[id]; ok {
		return r.db.populateAssign(a), nil
	}
	return nil, apperrors.ErrAssignNotFound
}

func (r *assignRepository) listWhere(keep func(*models.Assign) bool) []*models.Assign {
	r.db.RLock()
	defer r.db.RUnlock()

	assigns := []*models.Assign{}
	for _, a := range r.db.assigns {
		if keep(a) {
			assigns = append(assigns, r.db.populateAssign(a))
		}
	}
	sort.Slice(assigns, func(i, j int) bool { return assigns[i].ID < assigns[j].ID })
	return assigns
}

func (r *assignRepository) List(_ context.Context) ([]*models.Assign, error) {
	return r.listWhere(func(*models.Assign) bool { return true }), nil
}

func (r *assignRepository) ListByTeacher(_ context.Context, teacherID string) ([]*models.Assign, error) {
	return r.listWhere(func(a *models.Assign) bool { return a.TeacherID == teacherID }), nil
}

func (r *assignRepository) ListByClass(_ context.Context, classID string) ([]*models.Assign, error) {
	return r.listWhere(func(a *models.Assign) bool { return a.ClassID == classID }), nil
}

func (r *assignRepository) UpdateTeacher(_ context.Context, id int64, teacherID string) error {
	r.db.Lock()
	defer r.db.Unlock()

	a, ok := r.db.assigns[id]
	if !ok {
		return apperrors.ErrAssignNotFound
	}
	if _, ok := r.db.teachers[teacherID]; !ok {
		return apperrors.ErrTeacherNotFound
	}
	for _, mine := range r.db.times {
		if mine.AssignID != id {
			continue
		}
		for _, t := range r.db.times {
			if t.AssignID == id || t.Day != mine.Day || t.Period != mine.Period {
				continue
			}
			if other, ok := r.db.assigns[t.AssignID]; ok && other.TeacherID == teacherID {
				return apperrors.ErrSlotTaken
			}
		}
	}
	a.TeacherID = teacherID
	return nil
}
