package models

// Role is the single role an authenticated principal acts under
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Principal is the resolved identity carried through a request.
// Exactly one of TeacherID / USN is set, matching Role; admins carry neither.
type Principal struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	TeacherID string `json:"teacher_id,omitempty"`
	USN       string `json:"usn,omitempty"`
	// CanWrite is set for superusers; staff-only admins get read access
	CanWrite bool `json:"can_write"`
}

// IsAdmin reports whether the principal acts as an admin
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// IsTeacher reports whether the principal acts as a teacher
func (p *Principal) IsTeacher() bool {
	return p != nil && p.Role == RoleTeacher && p.TeacherID != ""
}

// IsStudent reports whether the principal acts as a student
func (p *Principal) IsStudent() bool {
	return p != nil && p.Role == RoleStudent && p.USN != ""
}
