package pages

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/middleware"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

// adminOrder is the navigation order of the admin resources
var adminOrder = []string{"depts", "classes", "courses", "teachers", "students", "assigns"}

// adminResource describes how one catalog entity is listed and edited
type adminResource struct {
	title   string
	columns []string
	list    func(ctx context.Context, p *models.Principal) ([]listRow, error)
	fields  func(ctx context.Context, p *models.Principal, editing bool) ([]formField, error)
	values  func(ctx context.Context, p *models.Principal, id string) (map[string]string, error)
	create  func(c *gin.Context, p *models.Principal) error
	update  func(c *gin.Context, p *models.Principal, id string) error
}

type listRow struct {
	ID    string
	Cells []string
}

type option struct {
	Value string
	Label string
}

type formField struct {
	Name    string
	Label   string
	Type    string
	Options []option
}

func textField(name, label string) formField {
	return formField{Name: name, Label: label, Type: "text"}
}

var sexOptions = []option{{models.SexMale, models.SexMale}, {models.SexFemale, models.SexFemale}}

const dobMessage = "DOB must be a date in YYYY-MM-DD format"

// AdminResources returns the names of the editable catalog entities
func (h *Handler) AdminResources() []string {
	return adminOrder
}

func (h *Handler) adminResources() map[string]*adminResource {
	return map[string]*adminResource{
		"depts":    h.deptResource(),
		"classes":  h.classResource(),
		"courses":  h.courseResource(),
		"teachers": h.teacherResource(),
		"students": h.studentResource(),
		"assigns":  h.assignResource(),
	}
}

func (h *Handler) deptOptions(ctx context.Context, p *models.Principal) ([]option, error) {
	depts, err := h.catalog.ListDepts(ctx, p)
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(depts))
	for _, d := range depts {
		opts = append(opts, option{d.ID, d.Name})
	}
	return opts, nil
}

func (h *Handler) classOptions(ctx context.Context, p *models.Principal) ([]option, error) {
	classes, err := h.catalog.ListClasses(ctx, p)
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(classes))
	for _, cl := range classes {
		opts = append(opts, option{cl.ID, cl.DisplayName()})
	}
	return opts, nil
}

func (h *Handler) courseOptions(ctx context.Context, p *models.Principal) ([]option, error) {
	courses, err := h.catalog.ListCourses(ctx, p)
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(courses))
	for _, co := range courses {
		opts = append(opts, option{co.ID, co.ID + " " + co.Name})
	}
	return opts, nil
}

func (h *Handler) teacherOptions(ctx context.Context, p *models.Principal) ([]option, error) {
	teachers, err := h.catalog.ListTeachers(ctx, p)
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(teachers))
	for _, t := range teachers {
		opts = append(opts, option{t.ID, t.Name})
	}
	return opts, nil
}

func (h *Handler) studentOptions(ctx context.Context, p *models.Principal) ([]option, error) {
	students, err := h.catalog.ListStudents(ctx, p)
	if err != nil {
		return nil, err
	}
	opts := make([]option, 0, len(students))
	for _, s := range students {
		opts = append(opts, option{s.USN, s.USN + " " + s.Name})
	}
	return opts, nil
}

func (h *Handler) deptResource() *adminResource {
	return &adminResource{
		title:   "Departments",
		columns: []string{"ID", "Name"},
		list: func(ctx context.Context, p *models.Principal) ([]listRow, error) {
			depts, err := h.catalog.ListDepts(ctx, p)
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(depts))
			for _, d := range depts {
				rows = append(rows, listRow{d.ID, []string{d.ID, d.Name}})
			}
			return rows, nil
		},
		fields: func(_ context.Context, _ *models.Principal, editing bool) ([]formField, error) {
			if editing {
				return []formField{textField("name", "Name")}, nil
			}
			return []formField{textField("id", "ID"), textField("name", "Name")}, nil
		},
		values: func(ctx context.Context, p *models.Principal, id string) (map[string]string, error) {
			d, err := h.catalog.GetDept(ctx, p, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{"id": d.ID, "name": d.Name}, nil
		},
		create: func(c *gin.Context, p *models.Principal) error {
			var req dto.CreateDeptRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			return h.catalog.CreateDept(c.Request.Context(), p, &models.Dept{ID: req.ID, Name: req.Name})
		},
		update: func(c *gin.Context, p *models.Principal, id string) error {
			var req dto.UpdateDeptRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			return h.catalog.UpdateDept(c.Request.Context(), p, &models.Dept{ID: id, Name: req.Name})
		},
	}
}

func (h *Handler) classResource() *adminResource {
	fields := func(ctx context.Context, p *models.Principal, editing bool) ([]formField, error) {
		depts, err := h.deptOptions(ctx, p)
		if err != nil {
			return nil, err
		}
		out := []formField{
			{Name: "dept_id", Label: "Department", Type: "select", Options: depts},
			{Name: "sem", Label: "Semester", Type: "number"},
			textField("section", "Section"),
		}
		if !editing {
			out = append([]formField{textField("id", "ID")}, out...)
		}
		return out, nil
	}
	return &adminResource{
		title:   "Classes",
		columns: []string{"ID", "Name", "Department", "Semester", "Section"},
		list: func(ctx context.Context, p *models.Principal) ([]listRow, error) {
			classes, err := h.catalog.ListClasses(ctx, p)
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(classes))
			for _, cl := range classes {
				rows = append(rows, listRow{cl.ID, []string{cl.ID, cl.DisplayName(), cl.DeptID, strconv.Itoa(cl.Sem), cl.Section}})
			}
			return rows, nil
		},
		fields: fields,
		values: func(ctx context.Context, p *models.Principal, id string) (map[string]string, error) {
			cl, err := h.catalog.GetClass(ctx, p, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{"id": cl.ID, "dept_id": cl.DeptID, "sem": strconv.Itoa(cl.Sem), "section": cl.Section}, nil
		},
		create: func(c *gin.Context, p *models.Principal) error {
			var req dto.CreateClassRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			return h.catalog.CreateClass(c.Request.Context(), p, &models.Class{ID: req.ID, DeptID: req.DeptID, Sem: req.Sem, Section: req.Section})
		},
		update: func(c *gin.Context, p *models.Principal, id string) error {
			var req dto.UpdateClassRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			return h.catalog.UpdateClass(c.Request.Context(), p, &models.Class{ID: id, DeptID: req.DeptID, Sem: req.Sem, Section: req.Section})
		},
	}
}

func (h *Handler) courseResource() *adminResource {
	return &adminResource{
		title:   "Courses",
		columns: []string{"ID", "Name", "Short name", "Department"},
		list: func(ctx context.Context, p *models.Principal) ([]listRow, error) {
			courses, err := h.catalog.ListCourses(ctx, p)
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(courses))
			for _, co := range courses {
				rows = append(rows, listRow{co.ID, []string{co.ID, co.Name, co.Shortname, co.DeptID}})
			}
			return rows, nil
		},
		fields: func(ctx context.Context, p *models.Principal, editing bool) ([]formField, error) {
			depts, err := h.deptOptions(ctx, p)
			if err != nil {
				return nil, err
			}
			out := []formField{
				{Name: "dept_id", Label: "Department", Type: "select", Options: depts},
				textField("name", "Name"),
				textField("shortname", "Short name"),
			}
			if !editing {
				out = append([]formField{textField("id", "ID")}, out...)
			}
			return out, nil
		},
		values: func(ctx context.Context, p *models.Principal, id string) (map[string]string, error) {
			co, err := h.catalog.GetCourse(ctx, p, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{"id": co.ID, "dept_id": co.DeptID, "name": co.Name, "shortname": co.Shortname}, nil
		},
		create: func(c *gin.Context, p *models.Principal) error {
			var req dto.CreateCourseRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			return h.catalog.CreateCourse(c.Request.Context(), p, &models.Course{ID: req.ID, DeptID: req.DeptID, Name: req.Name, Shortname: req.Shortname})
		},
		update: func(c *gin.Context, p *models.Principal, id string) error {
			var req dto.UpdateCourseRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			return h.catalog.UpdateCourse(c.Request.Context(), p, &models.Course{ID: id, DeptID: req.DeptID, Name: req.Name, Shortname: req.Shortname})
		},
	}
}

// personFields lays out a teacher or student form; new profiles also get
// an account
func personFields(idField, parentField formField, editing bool) []formField {
	out := []formField{
		parentField,
		textField("name", "Name"),
		{Name: "sex", Label: "Sex", Type: "select", Options: sexOptions},
		{Name: "DOB", Label: "Date of birth", Type: "date"},
	}
	if editing {
		return out
	}
	out = append([]formField{idField}, out...)
	return append(out,
		textField("username", "Username"),
		formField{Name: "password", Label: "Password", Type: "password"},
		formField{Name: "email", Label: "Email", Type: "email"},
	)
}

func personValues(id, parentKey, parent, name, sex string, dob *time.Time) map[string]string {
	values := map[string]string{"id": id, parentKey: parent, "name": name, "sex": sex}
	if dob != nil {
		values["DOB"] = dob.Format(models.DateLayout)
	}
	return values
}

func (h *Handler) teacherResource() *adminResource {
	return &adminResource{
		title:   "Teachers",
		columns: []string{"ID", "Name", "Department", "Sex", "Date of birth"},
		list: func(ctx context.Context, p *models.Principal) ([]listRow, error) {
			teachers, err := h.catalog.ListTeachers(ctx, p)
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(teachers))
			for _, t := range dto.NewTeacherResponses(teachers) {
				rows = append(rows, listRow{t.ID, []string{t.ID, t.Name, t.DeptID, t.Sex, t.DOB}})
			}
			return rows, nil
		},
		fields: func(ctx context.Context, p *models.Principal, editing bool) ([]formField, error) {
			depts, err := h.deptOptions(ctx, p)
			if err != nil {
				return nil, err
			}
			parent := formField{Name: "dept_id", Label: "Department", Type: "select", Options: depts}
			return personFields(textField("id", "ID"), parent, editing), nil
		},
		values: func(ctx context.Context, p *models.Principal, id string) (map[string]string, error) {
			t, err := h.catalog.GetTeacher(ctx, p, id)
			if err != nil {
				return nil, err
			}
			return personValues(t.ID, "dept_id", t.DeptID, t.Name, t.Sex, t.DOB), nil
		},
		create: func(c *gin.Context, p *models.Principal) error {
			var req dto.CreateTeacherRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			teacher, account, err := req.ToTeacher()
			if err != nil {
				return apperrors.NewValidationError("DOB", dobMessage)
			}
			return h.catalog.CreateTeacher(c.Request.Context(), p, teacher, account)
		},
		update: func(c *gin.Context, p *models.Principal, id string) error {
			var req dto.UpdateTeacherRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			dob, err := req.ParseDOB()
			if err != nil {
				return apperrors.NewValidationError("DOB", dobMessage)
			}
			return h.catalog.UpdateTeacher(c.Request.Context(), p, &models.Teacher{ID: id, DeptID: req.DeptID, Name: req.Name, Sex: req.Sex, DOB: dob})
		},
	}
}

func (h *Handler) studentResource() *adminResource {
	return &adminResource{
		title:   "Students",
		columns: []string{"USN", "Name", "Class", "Sex", "Date of birth"},
		list: func(ctx context.Context, p *models.Principal) ([]listRow, error) {
			students, err := h.catalog.ListStudents(ctx, p)
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(students))
			for _, s := range dto.NewStudentResponses(students) {
				rows = append(rows, listRow{s.ID, []string{s.ID, s.Name, s.ClassID, s.Sex, s.DOB}})
			}
			return rows, nil
		},
		fields: func(ctx context.Context, p *models.Principal, editing bool) ([]formField, error) {
			classes, err := h.classOptions(ctx, p)
			if err != nil {
				return nil, err
			}
			parent := formField{Name: "class_id", Label: "Class", Type: "select", Options: classes}
			return personFields(textField("USN", "USN"), parent, editing), nil
		},
		values: func(ctx context.Context, p *models.Principal, id string) (map[string]string, error) {
			s, err := h.catalog.GetStudent(ctx, p, id)
			if err != nil {
				return nil, err
			}
			values := personValues(s.USN, "class_id", s.ClassID, s.Name, s.Sex, s.DOB)
			values["USN"] = s.USN
			return values, nil
		},
		create: func(c *gin.Context, p *models.Principal) error {
			var req dto.CreateStudentRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			student, account, err := req.ToStudent()
			if err != nil {
				return apperrors.NewValidationError("DOB", dobMessage)
			}
			return h.catalog.CreateStudent(c.Request.Context(), p, student, account)
		},
		update: func(c *gin.Context, p *models.Principal, id string) error {
			var req dto.UpdateStudentRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			dob, err := req.ParseDOB()
			if err != nil {
				return apperrors.NewValidationError("DOB", dobMessage)
			}
			return h.catalog.UpdateStudent(c.Request.Context(), p, &models.Student{USN: id, ClassID: req.ClassID, Name: req.Name, Sex: req.Sex, DOB: dob})
		},
	}
}

func parseAssignID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, apperrors.NewResourceNotFoundError("No such assignment")
	}
	return n, nil
}

func (h *Handler) assignResource() *adminResource {
	return &adminResource{
		title:   "Assignments",
		columns: []string{"ID", "Class", "Course", "Teacher"},
		list: func(ctx context.Context, p *models.Principal) ([]listRow, error) {
			assigns, err := h.catalog.ListAssigns(ctx, p)
			if err != nil {
				return nil, err
			}
			rows := make([]listRow, 0, len(assigns))
			for _, a := range dto.NewAssignResponses(assigns) {
				id := strconv.FormatInt(a.ID, 10)
				rows = append(rows, listRow{id, []string{id, a.ClassName, a.CourseID + " " + a.CourseName, a.TeacherName}})
			}
			return rows, nil
		},
		fields: func(ctx context.Context, p *models.Principal, editing bool) ([]formField, error) {
			teachers, err := h.teacherOptions(ctx, p)
			if err != nil {
				return nil, err
			}
			teacher := formField{Name: "teacher_id", Label: "Teacher", Type: "select", Options: teachers}
			if editing {
				return []formField{teacher}, nil
			}
			classes, err := h.classOptions(ctx, p)
			if err != nil {
				return nil, err
			}
			courses, err := h.courseOptions(ctx, p)
			if err != nil {
				return nil, err
			}
			return []formField{
				{Name: "class_id", Label: "Class", Type: "select", Options: classes},
				{Name: "course_id", Label: "Course", Type: "select", Options: courses},
				teacher,
			}, nil
		},
		values: func(ctx context.Context, p *models.Principal, id string) (map[string]string, error) {
			assignID, err := parseAssignID(id)
			if err != nil {
				return nil, err
			}
			a, err := h.catalog.GetAssign(ctx, p, assignID)
			if err != nil {
				return nil, err
			}
			return map[string]string{"class_id": a.ClassID, "course_id": a.CourseID, "teacher_id": a.TeacherID}, nil
		},
		create: func(c *gin.Context, p *models.Principal) error {
			var req dto.CreateAssignRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			return h.catalog.CreateAssign(c.Request.Context(), p, &models.Assign{ClassID: req.ClassID, CourseID: req.CourseID, TeacherID: req.TeacherID})
		},
		update: func(c *gin.Context, p *models.Principal, id string) error {
			assignID, err := parseAssignID(id)
			if err != nil {
				return err
			}
			var req dto.UpdateAssignRequest
			if err := c.ShouldBind(&req); err != nil {
				return err
			}
			_, err = h.catalog.ReassignTeacher(c.Request.Context(), p, assignID, req.TeacherID)
			return err
		},
	}
}

// AdminHome links every catalog listing
func (h *Handler) AdminHome(c *gin.Context) {
	links := make([]option, 0, len(adminOrder))
	for _, name := range adminOrder {
		links = append(links, option{"/admin/" + name, h.resources[name].title})
	}
	h.render(c, http.StatusOK, "admin_home.html", gin.H{"Title": "Administration", "Links": links})
}

// AdminList returns the listing page of one resource
func (h *Handler) AdminList(name string) gin.HandlerFunc {
	res := h.resources[name]
	return func(c *gin.Context) {
		rows, err := res.list(c.Request.Context(), middleware.GetPrincipal(c))
		if err != nil {
			h.fail(c, err)
			return
		}
		h.render(c, http.StatusOK, "admin_list.html", gin.H{
			"Title":    res.title,
			"Resource": name,
			"Columns":  res.columns,
			"Rows":     rows,
		})
	}
}

func (h *Handler) renderForm(c *gin.Context, status int, name string, res *adminResource, id string, values, errs map[string]string) {
	editing := id != ""
	fields, err := res.fields(c.Request.Context(), middleware.GetPrincipal(c), editing)
	if err != nil {
		h.fail(c, err)
		return
	}
	action, title := "/admin/"+name+"/new", "New "+res.title
	if editing {
		action, title = fmt.Sprintf("/admin/%s/%s/edit", name, id), res.title+" "+id
	}
	h.render(c, status, "admin_form.html", gin.H{
		"Title":    title,
		"Resource": name,
		"Action":   action,
		"Fields":   fields,
		"Values":   values,
		"Errors":   errs,
	})
}

// postedValues keeps the submitted form so a rejected form is re-rendered as typed
func postedValues(c *gin.Context) map[string]string {
	values := map[string]string{}
	if err := c.Request.ParseForm(); err != nil {
		return values
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 && k != "password" {
			values[k] = v[0]
		}
	}
	return values
}

// AdminCreateForm returns the empty creation form of one resource
func (h *Handler) AdminCreateForm(name string) gin.HandlerFunc {
	res := h.resources[name]
	return func(c *gin.Context) {
		h.renderForm(c, http.StatusOK, name, res, "", nil, nil)
	}
}

// AdminCreate stores a new record of one resource
func (h *Handler) AdminCreate(name string) gin.HandlerFunc {
	res := h.resources[name]
	return func(c *gin.Context) {
		if err := res.create(c, middleware.GetPrincipal(c)); err != nil {
			if fields, ok := formErrors(err); ok {
				h.renderForm(c, http.StatusBadRequest, name, res, "", postedValues(c), fields)
				return
			}
			h.fail(c, err)
			return
		}
		h.logger.Info().Str("resource", name).Int64("userID", middleware.GetPrincipal(c).UserID).Msg("Admin created record")
		h.redirect(c, "/admin/"+name, "Saved")
	}
}

// AdminEditForm returns the edit form of one record
func (h *Handler) AdminEditForm(name string) gin.HandlerFunc {
	res := h.resources[name]
	return func(c *gin.Context) {
		id := c.Param("id")
		values, err := res.values(c.Request.Context(), middleware.GetPrincipal(c), id)
		if err != nil {
			h.fail(c, err)
			return
		}
		h.renderForm(c, http.StatusOK, name, res, id, values, nil)
	}
}

// AdminUpdate saves an edited record
func (h *Handler) AdminUpdate(name string) gin.HandlerFunc {
	res := h.resources[name]
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := res.update(c, middleware.GetPrincipal(c), id); err != nil {
			if fields, ok := formErrors(err); ok {
				h.renderForm(c, http.StatusBadRequest, name, res, id, postedValues(c), fields)
				return
			}
			h.fail(c, err)
			return
		}
		h.logger.Info().Str("resource", name).Str("id", id).Int64("userID", middleware.GetPrincipal(c).UserID).Msg("Admin updated record")
		h.redirect(c, "/admin/"+name, "Saved")
	}
}

// ClassTimetable shows the weekly grid of any class
func (h *Handler) ClassTimetable(c *gin.Context) {
	classID := c.Param("id")
	tt, err := h.timetable.ForClass(c.Request.Context(), middleware.GetPrincipal(c), classID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "timetable.html", gin.H{
		"Title":     "Timetable " + classID,
		"Timetable": dto.NewTimetableResponse(tt),
	})
}

func (h *Handler) renderEnrollment(c *gin.Context, status int, data gin.H) {
	ctx, p := c.Request.Context(), middleware.GetPrincipal(c)
	students, err := h.studentOptions(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	courses, err := h.courseOptions(ctx, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = "Enrollments"
	data["Students"] = students
	data["Courses"] = courses
	h.render(c, status, "enrollment.html", data)
}

// EnrollmentForm shows the enroll/unenroll form
func (h *Handler) EnrollmentForm(c *gin.Context) {
	h.renderEnrollment(c, http.StatusOK, nil)
}

// Enrollment enrolls or unenrolls a student depending on the submitted action
func (h *Handler) Enrollment(c *gin.Context) {
	var req dto.EnrollmentRequest
	err := c.ShouldBind(&req)
	msg := ""
	if err == nil {
		ctx, p := c.Request.Context(), middleware.GetPrincipal(c)
		if c.PostForm("action") == "unenroll" {
			err = h.catalog.Unenroll(ctx, p, req.USN, req.CourseID)
			msg = fmt.Sprintf("%s unenrolled from %s", req.USN, req.CourseID)
		} else {
			err = h.catalog.Enroll(ctx, p, req.USN, req.CourseID)
			msg = fmt.Sprintf("%s enrolled in %s", req.USN, req.CourseID)
		}
	}
	if err != nil {
		if fields, ok := formErrors(err); ok {
			h.renderEnrollment(c, http.StatusBadRequest, gin.H{"Errors": fields, "Form": req})
			return
		}
		if apperrors.IsNotFound(err) {
			h.renderEnrollment(c, http.StatusBadRequest, gin.H{"Errors": map[string]string{"": errorText(err)}, "Form": req})
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, "/admin/enrollments", msg)
}
