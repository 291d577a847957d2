package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/collegeerp/internal/app/models"
	appRepos "github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	pkgauth "github.com/yigit/collegeerp/internal/pkg/auth"
)

// Options controls the accounts created with the demo data
type Options struct {
	AdminUsername string
	AdminPassword string
	// UserPassword is given to the demo teacher and student
	UserPassword string
}

// DefaultOptions are the development credentials
var DefaultOptions = Options{
	AdminUsername: "admin",
	AdminPassword: "Admin123!",
	UserPassword:  "Password123!",
}

// CreateDefaultData creates a small demo college if it does not exist yet:
// department CS, class CS5A, course CS510, an admin, one teacher, one
// student, the teaching assignment and two weekly slots. Existing rows are
// left untouched so the function can run on every start.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	if err := ensureAdmin(ctx, repos, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		finalErr = errors.Join(finalErr, err)
	}

	dept := &appModels.Dept{ID: "CS", Name: "Computer Science"}
	if _, err := repos.Depts.GetByID(ctx, dept.ID); apperrors.IsNotFound(err) {
		err = repos.Depts.Create(ctx, dept)
		finalErr = joinLogged(lgr, finalErr, err, "Error creating department")
	}

	class := &appModels.Class{ID: "CS5A", DeptID: dept.ID, Sem: 5, Section: "A"}
	if _, err := repos.Classes.GetByID(ctx, class.ID); apperrors.IsNotFound(err) {
		err = repos.Classes.Create(ctx, class)
		finalErr = joinLogged(lgr, finalErr, err, "Error creating class")
	}

	course := &appModels.Course{ID: "CS510", DeptID: dept.ID, Name: "Compilers", Shortname: "CD"}
	if _, err := repos.Courses.GetByID(ctx, course.ID); apperrors.IsNotFound(err) {
		err = repos.Courses.Create(ctx, course)
		finalErr = joinLogged(lgr, finalErr, err, "Error creating course")
	}

	password, err := pkgauth.HashPassword(opts.UserPassword)
	if err != nil {
		return errors.Join(finalErr, err)
	}

	teacher := &appModels.Teacher{ID: "T001", DeptID: dept.ID, Name: "Meera Iyer", Sex: appModels.SexFemale}
	if _, err := repos.Teachers.GetByID(ctx, teacher.ID); apperrors.IsNotFound(err) {
		account := &appModels.User{Username: "t001", Password: password, FirstName: "Meera", LastName: "Iyer", IsActive: true}
		err = repos.Teachers.Create(ctx, teacher, account)
		finalErr = joinLogged(lgr, finalErr, err, "Error creating teacher")
	}

	dob := time.Date(2003, time.April, 5, 0, 0, 0, 0, time.UTC)
	student := &appModels.Student{USN: "1CS001", ClassID: class.ID, Name: "Asha Rao", Sex: appModels.SexFemale, DOB: &dob}
	if _, err := repos.Students.GetByUSN(ctx, student.USN); apperrors.IsNotFound(err) {
		account := &appModels.User{Username: "1cs001", Password: password, FirstName: "Asha", LastName: "Rao", IsActive: true}
		err = repos.Students.Create(ctx, student, account)
		finalErr = joinLogged(lgr, finalErr, err, "Error creating student")
	}

	assigns, err := repos.Assigns.ListByClass(ctx, class.ID)
	if err != nil {
		return errors.Join(finalErr, err)
	}
	if len(assigns) == 0 {
		assign := &appModels.Assign{ClassID: class.ID, CourseID: course.ID, TeacherID: teacher.ID}
		if err := repos.Assigns.Create(ctx, assign); err != nil {
			return joinLogged(lgr, finalErr, err, "Error creating assignment")
		}
		for _, slot := range []appModels.AssignTime{
			{AssignID: assign.ID, ClassID: class.ID, Day: appModels.Monday, Period: 1},
			{AssignID: assign.ID, ClassID: class.ID, Day: appModels.Wednesday, Period: 3},
		} {
			_, err := repos.Timetable.AddSlot(ctx, &slot, teacher.ID)
			finalErr = joinLogged(lgr, finalErr, err, "Error creating timetable slot")
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func ensureAdmin(ctx context.Context, repos *appRepos.Repositories, opts Options, lgr zerolog.Logger) error {
	if _, err := repos.Users.GetByUsername(ctx, opts.AdminUsername); err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	} else if !apperrors.IsNotFound(err) {
		return err
	}

	hash, err := pkgauth.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}
	admin := &appModels.User{
		Username:    opts.AdminUsername,
		Password:    hash,
		FirstName:   "System",
		LastName:    "Administrator",
		IsStaff:     true,
		IsSuperuser: true,
		IsActive:    true,
	}
	if err := repos.Users.Create(ctx, admin); err != nil {
		return err
	}
	lgr.Info().Int64("adminID", admin.ID).Str("username", admin.Username).Msg("Default admin user created successfully")
	return nil
}

func joinLogged(lgr zerolog.Logger, finalErr, err error, msg string) error {
	if err == nil {
		return finalErr
	}
	lgr.Error().Err(err).Msg(msg)
	return errors.Join(finalErr, err)
}
