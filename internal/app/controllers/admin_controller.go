package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/middleware"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	"github.com/yigit/collegeerp/internal/pkg/helpers"
)

// AdminController manages the catalog: departments, classes, courses,
// people, assignments and enrollment. Reads need an admin principal,
// writes additionally need a superuser.
type AdminController struct {
	catalogService services.CatalogService
	logger         zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(catalogService services.CatalogService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListDepts lists departments
// @Summary List departments
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Dept} "Departments retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Router /admin/depts [get]
func (c *AdminController) ListDepts(ctx *gin.Context) {
	depts, err := c.catalogService.ListDepts(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(depts))
}

// GetDept retrieves a department
// @Summary Get department
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Param id path string true "Department ID"
// @Success 200 {object} dto.APIResponse{data=models.Dept} "Department retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /admin/depts/{id} [get]
func (c *AdminController) GetDept(ctx *gin.Context) {
	dept, err := c.catalogService.GetDept(ctx.Request.Context(), middleware.GetPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dept))
}

// CreateDept creates a department
// @Summary Create department
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.CreateDeptRequest true "Department"
// @Success 201 {object} dto.APIResponse{data=models.Dept} "Department created"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or duplicate id"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Router /admin/depts [post]
func (c *AdminController) CreateDept(ctx *gin.Context) {
	var req dto.CreateDeptRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	dept := &models.Dept{ID: req.ID, Name: req.Name}
	if err := c.catalogService.CreateDept(ctx.Request.Context(), middleware.GetPrincipal(ctx), dept); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dept))
}

// UpdateDept renames a department
// @Summary Update department
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "Department ID"
// @Param request body dto.UpdateDeptRequest true "Department"
// @Success 200 {object} dto.APIResponse{data=models.Dept} "Department updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /admin/depts/{id} [put]
func (c *AdminController) UpdateDept(ctx *gin.Context) {
	var req dto.UpdateDeptRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	dept := &models.Dept{ID: ctx.Param("id"), Name: req.Name}
	if err := c.catalogService.UpdateDept(ctx.Request.Context(), middleware.GetPrincipal(ctx), dept); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dept))
}

// ListClasses lists classes
// @Summary List classes
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ClassResponse} "Classes retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Router /admin/classes [get]
func (c *AdminController) ListClasses(ctx *gin.Context) {
	classes, err := c.catalogService.ListClasses(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewClassResponses(classes)))
}

// GetClass retrieves a class
// @Summary Get class
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Param id path string true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.ClassResponse} "Class retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /admin/classes/{id} [get]
func (c *AdminController) GetClass(ctx *gin.Context) {
	class, err := c.catalogService.GetClass(ctx.Request.Context(), middleware.GetPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewClassResponse(class)))
}

// CreateClass creates a class
// @Summary Create class
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.CreateClassRequest true "Class"
// @Success 201 {object} dto.APIResponse{data=dto.ClassResponse} "Class created"
// @Failure 400 {object} dto.ErrorResponse "Invalid data, unknown department or duplicate id"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Router /admin/classes [post]
func (c *AdminController) CreateClass(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	class := &models.Class{ID: req.ID, DeptID: req.DeptID, Sem: req.Sem, Section: req.Section}
	if err := c.catalogService.CreateClass(ctx.Request.Context(), middleware.GetPrincipal(ctx), class); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewClassResponse(class)))
}

// UpdateClass updates a class
// @Summary Update class
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "Class ID"
// @Param request body dto.UpdateClassRequest true "Class"
// @Success 200 {object} dto.APIResponse{data=dto.ClassResponse} "Class updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or unknown department"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /admin/classes/{id} [put]
func (c *AdminController) UpdateClass(ctx *gin.Context) {
	var req dto.UpdateClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	class := &models.Class{ID: ctx.Param("id"), DeptID: req.DeptID, Sem: req.Sem, Section: req.Section}
	if err := c.catalogService.UpdateClass(ctx.Request.Context(), middleware.GetPrincipal(ctx), class); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewClassResponse(class)))
}

// ListCourses lists courses
// @Summary List courses
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Router /admin/courses [get]
func (c *AdminController) ListCourses(ctx *gin.Context) {
	courses, err := c.catalogService.ListCourses(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses))
}

// GetCourse retrieves a course
// @Summary Get course
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /admin/courses/{id} [get]
func (c *AdminController) GetCourse(ctx *gin.Context) {
	course, err := c.catalogService.GetCourse(ctx.Request.Context(), middleware.GetPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// CreateCourse creates a course
// @Summary Create course
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid data, unknown department or duplicate id"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Router /admin/courses [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	course := &models.Course{ID: req.ID, DeptID: req.DeptID, Name: req.Name, Shortname: req.Shortname}
	if err := c.catalogService.CreateCourse(ctx.Request.Context(), middleware.GetPrincipal(ctx), course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(course))
}

// UpdateCourse updates a course
// @Summary Update course
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Course"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or unknown department"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /admin/courses/{id} [put]
func (c *AdminController) UpdateCourse(ctx *gin.Context) {
	var req dto.UpdateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	course := &models.Course{ID: ctx.Param("id"), DeptID: req.DeptID, Name: req.Name, Shortname: req.Shortname}
	if err := c.catalogService.UpdateCourse(ctx.Request.Context(), middleware.GetPrincipal(ctx), course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(course))
}

// ListTeachers lists teachers
// @Summary List teachers
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.PersonResponse} "Teachers retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Router /admin/teachers [get]
func (c *AdminController) ListTeachers(ctx *gin.Context) {
	teachers, err := c.catalogService.ListTeachers(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewTeacherResponses(teachers)))
}

// GetTeacher retrieves a teacher
// @Summary Get teacher
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=dto.PersonResponse} "Teacher retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /admin/teachers/{id} [get]
func (c *AdminController) GetTeacher(ctx *gin.Context) {
	teacher, err := c.catalogService.GetTeacher(ctx.Request.Context(), middleware.GetPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewTeacherResponse(teacher)))
}

// CreateTeacher creates a teacher together with its login account
// @Summary Create teacher
// @Description Either links an existing user through user_id or creates a new account from username and password
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.CreateTeacherRequest true "Teacher"
// @Success 201 {object} dto.APIResponse{data=dto.PersonResponse} "Teacher created"
// @Failure 400 {object} dto.ErrorResponse "Invalid data, duplicate id or username"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Router /admin/teachers [post]
func (c *AdminController) CreateTeacher(ctx *gin.Context) {
	var req dto.CreateTeacherRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	teacher, account, err := req.ToTeacher()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("DOB", "DOB must be a date in YYYY-MM-DD format"))
		return
	}
	if err := c.catalogService.CreateTeacher(ctx.Request.Context(), middleware.GetPrincipal(ctx), teacher, account); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewTeacherResponse(teacher)))
}

// UpdateTeacher updates a teacher profile
// @Summary Update teacher
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "Teacher ID"
// @Param request body dto.UpdateTeacherRequest true "Teacher"
// @Success 200 {object} dto.APIResponse{data=dto.PersonResponse} "Teacher updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or unknown department"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /admin/teachers/{id} [put]
func (c *AdminController) UpdateTeacher(ctx *gin.Context) {
	var req dto.UpdateTeacherRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	dob, err := req.ParseDOB()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("DOB", "DOB must be a date in YYYY-MM-DD format"))
		return
	}
	teacher := &models.Teacher{ID: ctx.Param("id"), DeptID: req.DeptID, Name: req.Name, Sex: req.Sex, DOB: dob}
	if err := c.catalogService.UpdateTeacher(ctx.Request.Context(), middleware.GetPrincipal(ctx), teacher); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewTeacherResponse(teacher)))
}

// ListStudents lists students one page at a time
// @Summary List students
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(50)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.PersonResponse}} "Students retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Router /admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	students, err := c.catalogService.ListStudents(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)
	items, info := helpers.Paginate(dto.NewStudentResponses(students), page, size)
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{Items: items, Pagination: info}))
}

// GetStudent retrieves a student
// @Summary Get student
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Param id path string true "USN"
// @Success 200 {object} dto.APIResponse{data=dto.PersonResponse} "Student retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [get]
func (c *AdminController) GetStudent(ctx *gin.Context) {
	student, err := c.catalogService.GetStudent(ctx.Request.Context(), middleware.GetPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewStudentResponse(student)))
}

// CreateStudent creates a student together with its login account
// @Summary Create student
// @Description Either links an existing user through user_id or creates a new account. The student is enrolled in every course already assigned to the class.
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} dto.APIResponse{data=dto.PersonResponse} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid data, duplicate USN or username"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Router /admin/students [post]
func (c *AdminController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	student, account, err := req.ToStudent()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("DOB", "DOB must be a date in YYYY-MM-DD format"))
		return
	}
	if err := c.catalogService.CreateStudent(ctx.Request.Context(), middleware.GetPrincipal(ctx), student, account); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewStudentResponse(student)))
}

// UpdateStudent updates a student profile
// @Summary Update student
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path string true "USN"
// @Param request body dto.UpdateStudentRequest true "Student"
// @Success 200 {object} dto.APIResponse{data=dto.PersonResponse} "Student updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or unknown class"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [put]
func (c *AdminController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	dob, err := req.ParseDOB()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("DOB", "DOB must be a date in YYYY-MM-DD format"))
		return
	}
	student := &models.Student{USN: ctx.Param("id"), ClassID: req.ClassID, Name: req.Name, Sex: req.Sex, DOB: dob}
	if err := c.catalogService.UpdateStudent(ctx.Request.Context(), middleware.GetPrincipal(ctx), student); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewStudentResponse(student)))
}

// ListAssigns lists teaching assignments
// @Summary List assignments
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.AssignResponse} "Assignments retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Router /admin/assigns [get]
func (c *AdminController) ListAssigns(ctx *gin.Context) {
	assigns, err := c.catalogService.ListAssigns(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewAssignResponses(assigns)))
}

// GetAssign retrieves an assignment
// @Summary Get assignment
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssignResponse} "Assignment retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /admin/assigns/{id} [get]
func (c *AdminController) GetAssign(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Assignment")
	if !ok {
		return
	}
	assign, err := c.catalogService.GetAssign(ctx.Request.Context(), middleware.GetPrincipal(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewAssignResponse(assign)))
}

// CreateAssign assigns a teacher to a class and course
// @Summary Create assignment
// @Description Every student of the class is enrolled in the course
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.CreateAssignRequest true "Assignment"
// @Success 201 {object} dto.APIResponse{data=dto.AssignResponse} "Assignment created"
// @Failure 400 {object} dto.ErrorResponse "Unknown class, course or teacher, or course already assigned to the class"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Router /admin/assigns [post]
func (c *AdminController) CreateAssign(ctx *gin.Context) {
	var req dto.CreateAssignRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	assign := &models.Assign{ClassID: req.ClassID, CourseID: req.CourseID, TeacherID: req.TeacherID}
	if err := c.catalogService.CreateAssign(ctx.Request.Context(), middleware.GetPrincipal(ctx), assign); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewAssignResponse(assign)))
}

// UpdateAssign moves an assignment to another teacher
// @Summary Reassign teacher
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "Assignment ID"
// @Param request body dto.UpdateAssignRequest true "New teacher"
// @Success 200 {object} dto.APIResponse{data=dto.AssignResponse} "Assignment updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown teacher"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /admin/assigns/{id} [put]
func (c *AdminController) UpdateAssign(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Assignment")
	if !ok {
		return
	}
	var req dto.UpdateAssignRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	assign, err := c.catalogService.ReassignTeacher(ctx.Request.Context(), middleware.GetPrincipal(ctx), id, req.TeacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewAssignResponse(assign)))
}

// Enroll enrolls a student in a course
// @Summary Enroll student
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.EnrollmentRequest true "Enrollment"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse} "Student enrolled"
// @Failure 400 {object} dto.ErrorResponse "Unknown student or course"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Router /admin/enrollments [post]
func (c *AdminController) Enroll(ctx *gin.Context) {
	var req dto.EnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := c.catalogService.Enroll(ctx.Request.Context(), middleware.GetPrincipal(ctx), req.USN, req.CourseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student enrolled"}))
}

// Unenroll removes a student from a course
// @Summary Unenroll student
// @Tags admin
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.EnrollmentRequest true "Enrollment"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student unenrolled"
// @Failure 400 {object} dto.ErrorResponse "Unknown student or course"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - superuser only"
// @Router /admin/enrollments [delete]
func (c *AdminController) Unenroll(ctx *gin.Context) {
	var req dto.EnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := c.catalogService.Unenroll(ctx.Request.Context(), middleware.GetPrincipal(ctx), req.USN, req.CourseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student unenrolled"}))
}
