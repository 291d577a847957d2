package memory

import (
	"context"
	"sort"

	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

type deptRepository struct {
	db *DB
}

func (r *deptRepository) Create(_ context.Context, dept *models.Dept) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.depts[dept.ID]; ok {
		return apperrors.ErrDuplicateID
	}
	cp := *dept
	r.db.depts[dept.ID] = &cp
	return nil
}

func (r *deptRepository) GetByID(_ context.Context, id string) (*models.Dept, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if d, ok := r.db.depts[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, apperrors.ErrDeptNotFound
}

func (r *deptRepository) List(_ context.Context) ([]*models.Dept, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	depts := make([]*models.Dept, 0, len(r.db.depts))
	for _, d := range r.db.depts {
		cp := *d
		depts = append(depts, &cp)
	}
	sort.Slice(depts, func(i, j int) bool { return depts[i].ID < depts[j].ID })
	return depts, nil
}

func (r *deptRepository) Update(_ context.Context, dept *models.Dept) error {
	r.db.Lock()
	defer r.db.Unlock()

	d, ok := r.db.depts[dept.ID]
	if !ok {
		return apperrors.ErrDeptNotFound
	}
	d.Name = dept.Name
	return nil
}

type classRepository struct {
	db *DB
}

func (r *classRepository) Create(_ context.Context, class *models.Class) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.classes[class.ID]; ok {
		return apperrors.ErrDuplicateID
	}
	if _, ok := r.db.depts[class.DeptID]; !ok {
		return apperrors.ErrDeptNotFound
	}
	cp := *class
	cp.Dept = nil
	r.db.classes[class.ID] = &cp
	return nil
}

func (r *classRepository) GetByID(_ context.Context, id string) (*models.Class, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if c, ok := r.db.classes[id]; ok {
		return r.db.classWithDept(c), nil
	}
	return nil, apperrors.ErrClassNotFound
}

func (r *classRepository) List(_ context.Context) ([]*models.Class, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	classes := make([]*models.Class, 0, len(r.db.classes))
	for _, c := range r.db.classes {
		classes = append(classes, r.db.classWithDept(c))
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes, nil
}

func (r *classRepository) Update(_ context.Context, class *models.Class) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.classes[class.ID]; !ok {
		return apperrors.ErrClassNotFound
	}
	if _, ok := r.db.depts[class.DeptID]; !ok {
		return apperrors.ErrDeptNotFound
	}
	cp := *class
	cp.Dept = nil
	r.db.classes[class.ID] = &cp
	return nil
}

type courseRepository struct {
	db *DB
}

func (r *courseRepository) Create(_ context.Context, course *models.Course) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.courses[course.ID]; ok {
		return apperrors.ErrDuplicateID
	}
	if _, ok := r.db.depts[course.DeptID]; !ok {
		return apperrors.ErrDeptNotFound
	}
	cp := *course
	r.db.courses[course.ID] = &cp
	return nil
}

func (r *courseRepository) GetByID(_ context.Context, id string) (*models.Course, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if c, ok := r.db.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (r *courseRepository) List(_ context.Context) ([]*models.Course, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	courses := make([]*models.Course, 0, len(r.db.courses))
	for _, c := range r.db.courses {
		cp := *c
		courses = append(courses, &cp)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (r *courseRepository) Update(_ context.Context, course *models.Course) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if _, ok := r.db.depts[course.DeptID]; !ok {
		return apperrors.ErrDeptNotFound
	}
	cp := *course
	r.db.courses[course.ID] = &cp
	return nil
}
