package models

import (
	"strings"
	"time"
)

// User defines the platform principal based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Username    string     `json:"username" db:"username" example:"1cs001"`
	Email       string     `json:"email" db:"email" example:"student@college.edu"`
	Password    string     `json:"-" db:"password"` // bcrypt hash, empty means password login is disabled
	FirstName   string     `json:"first_name" db:"first_name" example:"Asha"`
	LastName    string     `json:"last_name" db:"last_name" example:"Rao"`
	IsStaff     bool       `json:"is_staff" db:"is_staff"`
	IsSuperuser bool       `json:"is_superuser" db:"is_superuser"`
	IsActive    bool       `json:"is_active" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName joins first and last name, falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// HasUsablePassword reports whether password login is possible for the user
func (u *User) HasUsablePassword() bool {
	return u.Password != ""
}

// AuthToken is the opaque API key issued at login, one per user
type AuthToken struct {
	Key       string    `json:"key" db:"key"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
