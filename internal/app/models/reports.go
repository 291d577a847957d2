package models

// StudentProfile is a student with the class and account it belongs to
type StudentProfile struct {
	Student *Student
	Class   *Class
	User    *User
}

// TeacherProfile is a teacher with the department and account it belongs to
type TeacherProfile struct {
	Teacher *Teacher
	Dept    *Dept
	User    *User
}

// AssignOverview summarises the sessions taken under one assignment
type AssignOverview struct {
	Assign   *Assign
	Sessions int
	Held     int
}

// CourseRoster lists the students of one assignment with their attendance
type CourseRoster struct {
	Assign   *Assign
	Students []*StudentAttendance
}

// SessionRoster is the marking sheet of one attendance session
type SessionRoster struct {
	Assign  *Assign
	Session *AttendanceClass
	Entries []RosterEntry
}

// CourseMarks groups a student's component scores by enrolled course
type CourseMarks struct {
	Course     *Course
	Components []*ComponentScore
}

// AssignComponents lists the graded components of one assignment
type AssignComponents struct {
	Assign     *Assign
	Components []*MarksClass
}

// ComponentSheet is the marks entry sheet of one component
type ComponentSheet struct {
	Assign    *Assign
	Component *MarksClass
	Scores    []StudentScore
}
