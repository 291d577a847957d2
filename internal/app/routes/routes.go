package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeerp/internal/app/controllers"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/app/pages"
	"github.com/yigit/collegeerp/internal/middleware"
)

// Controllers groups the JSON API handlers
type Controllers struct {
	Auth       *controllers.AuthController
	Attendance *controllers.AttendanceController
	Marks      *controllers.MarksController
	Timetable  *controllers.TimetableController
	Admin      *controllers.AdminController
}

// SetupRouter configures the JSON API under /api
func SetupRouter(router *gin.Engine, c *Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "pong"}))
	})

	api := router.Group("/api")

	// --- Public routes ---
	api.POST("/login", c.Auth.Login)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.TokenAuth())
	authenticated.POST("/logout", c.Auth.Logout)

	studentOnly := middleware.RoleRequired(models.RoleStudent)
	teacherOnly := middleware.RoleRequired(models.RoleTeacher)

	// Student routes
	student := authenticated.Group("")
	student.Use(studentOnly)
	{
		student.GET("/detail", c.Auth.StudentDetail)
		student.GET("/attendance", c.Attendance.Summary)
		student.GET("/attendance/:course_id", c.Attendance.Detail)
		student.GET("/attendance_detail/:course_id", c.Attendance.Detail)
		student.POST("/attendance/report", c.Attendance.Report)
		student.GET("/marks", c.Marks.Summary)
		student.GET("/marks/:course_id", c.Marks.Detail)
		student.GET("/marks_detail/:course_id", c.Marks.Detail)
		student.GET("/student/timetable", c.Timetable.StudentTimetable)
	}

	// Teacher routes
	teacher := authenticated.Group("/teacher")
	{
		teacher.GET("/detail", teacherOnly, c.Auth.TeacherDetail)
		teacher.GET("/attendance", teacherOnly, c.Attendance.TeacherOverview)
		teacher.GET("/attendance/:course_id", teacherOnly, c.Attendance.TeacherCourseDetail)
		teacher.GET("/marks", teacherOnly, c.Marks.TeacherOverview)
		teacher.GET("/marks/:course_id", teacherOnly, c.Marks.TeacherCourseDetail)
		teacher.GET("/timetable", teacherOnly, c.Timetable.TeacherTimetable)

		teacher.GET("/assigns/:assign_id/sessions", teacherOnly, c.Attendance.ListSessions)
		teacher.POST("/assigns/:assign_id/sessions", teacherOnly, c.Attendance.OpenSession)
		teacher.PUT("/sessions/:id", teacherOnly, c.Attendance.SetSessionStatus)
		teacher.GET("/sessions/:id/attendance", teacherOnly, c.Attendance.Roster)
		teacher.POST("/sessions/:id/attendance", teacherOnly, c.Attendance.Mark)

		teacher.POST("/assigns/:assign_id/components", teacherOnly, c.Marks.CreateComponent)
		teacher.PUT("/components/:id", teacherOnly, c.Marks.UpdateComponent)
		teacher.GET("/components/:id/marks", teacherOnly, c.Marks.Roster)
		teacher.POST("/components/:id/marks", teacherOnly, c.Marks.Enter)

		// Slots are also managed by superusers; the service checks ownership
		teacher.POST("/assigns/:assign_id/times", c.Timetable.AddSlot)
		teacher.DELETE("/times/:id", c.Timetable.RemoveSlot)
	}

	// Admin routes
	admin := authenticated.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/depts", c.Admin.ListDepts)
		admin.GET("/depts/:id", c.Admin.GetDept)
		admin.POST("/depts", c.Admin.CreateDept)
		admin.PUT("/depts/:id", c.Admin.UpdateDept)

		admin.GET("/classes", c.Admin.ListClasses)
		admin.GET("/classes/:id", c.Admin.GetClass)
		admin.GET("/classes/:id/timetable", c.Timetable.ClassTimetable)
		admin.POST("/classes", c.Admin.CreateClass)
		admin.PUT("/classes/:id", c.Admin.UpdateClass)

		admin.GET("/courses", c.Admin.ListCourses)
		admin.GET("/courses/:id", c.Admin.GetCourse)
		admin.POST("/courses", c.Admin.CreateCourse)
		admin.PUT("/courses/:id", c.Admin.UpdateCourse)

		admin.GET("/teachers", c.Admin.ListTeachers)
		admin.GET("/teachers/:id", c.Admin.GetTeacher)
		admin.POST("/teachers", c.Admin.CreateTeacher)
		admin.PUT("/teachers/:id", c.Admin.UpdateTeacher)

		admin.GET("/students", c.Admin.ListStudents)
		admin.GET("/students/:id", c.Admin.GetStudent)
		admin.POST("/students", c.Admin.CreateStudent)
		admin.PUT("/students/:id", c.Admin.UpdateStudent)

		admin.GET("/assigns", c.Admin.ListAssigns)
		admin.GET("/assigns/:id", c.Admin.GetAssign)
		admin.POST("/assigns", c.Admin.CreateAssign)
		admin.PUT("/assigns/:id", c.Admin.UpdateAssign)

		admin.POST("/enrollments", c.Admin.Enroll)
		admin.DELETE("/enrollments", c.Admin.Unenroll)
	}
}

// SetupPageRoutes configures the server-rendered pages. sso may be nil when
// single sign-on is disabled.
func SetupPageRoutes(router *gin.Engine, h *pages.Handler, sso *pages.SSOHandler, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/login", h.LoginForm)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)

	if sso != nil {
		router.GET("/oidc/login", sso.Login)
		router.GET("/oidc/callback", sso.Callback)
	}

	site := router.Group("")
	site.Use(authMiddleware.SessionAuth())
	site.GET("/", h.Home)

	student := site.Group("")
	student.Use(middleware.PageRoleRequired(models.RoleStudent))
	{
		student.GET("/attendance", h.StudentAttendance)
		student.GET("/attendance/:course_id", h.StudentAttendanceDetail)
		student.GET("/attendance_report", h.AttendanceReportForm)
		student.POST("/attendance_report", h.AttendanceReport)
		student.GET("/marks", h.StudentMarks)
		student.GET("/student/timetable", h.StudentTimetable)
	}

	teacher := site.Group("/teacher")
	teacher.Use(middleware.PageRoleRequired(models.RoleTeacher))
	{
		teacher.GET("", h.TeacherHome)
		teacher.GET("/timetable", h.TeacherTimetable)
		teacher.GET("/courses/:course_id/students", h.CourseStudents)
		teacher.GET("/assigns/:assign_id/sessions", h.Sessions)
		teacher.POST("/assigns/:assign_id/sessions", h.OpenSession)
		teacher.POST("/sessions/:id/status", h.SetSessionStatus)
		teacher.GET("/sessions/:id/attendance", h.MarkAttendanceForm)
		teacher.POST("/sessions/:id/attendance", h.MarkAttendance)
		teacher.GET("/assigns/:assign_id/components", h.Components)
		teacher.POST("/assigns/:assign_id/components", h.CreateComponent)
		teacher.POST("/components/:id", h.UpdateComponent)
		teacher.GET("/components/:id/marks", h.EnterMarksForm)
		teacher.POST("/components/:id/marks", h.EnterMarks)
		teacher.POST("/assigns/:assign_id/times", h.AddSlot)
		teacher.POST("/times/:id/delete", h.RemoveSlot)
	}

	admin := site.Group("/admin")
	admin.Use(middleware.PageRoleRequired(models.RoleAdmin))
	{
		admin.GET("", h.AdminHome)
		for _, name := range h.AdminResources() {
			admin.GET("/"+name, h.AdminList(name))
			admin.GET("/"+name+"/new", h.AdminCreateForm(name))
			admin.POST("/"+name+"/new", h.AdminCreate(name))
			admin.GET("/"+name+"/:id/edit", h.AdminEditForm(name))
			admin.POST("/"+name+"/:id/edit", h.AdminUpdate(name))
		}
		admin.GET("/classes/:id/timetable", h.ClassTimetable)
		admin.GET("/enrollments", h.EnrollmentForm)
		admin.POST("/enrollments", h.Enrollment)
	}
}
