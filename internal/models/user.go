package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
	RoleAlumni  Role = "ALUMNI"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleAlumni}

// ParseRole maps a stored or submitted role string onto the enum.
// The second return value is false for anything outside the enum.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleAlumni:
		return true
	}
	return false
}

// Portal returns the name of the role's own area ("guru", "siswa",
// "alumni"). Admins and unknown roles have none.
func (r Role) Portal() string {
	switch r {
	case RoleTeacher:
		return "guru"
	case RoleStudent:
		return "siswa"
	case RoleAlumni:
		return "alumni"
	}
	return ""
}

// Home is where a user of this role lands after login.
func (r Role) Home() string {
	if r == RoleAdmin {
		return "/admin"
	}
	if p := r.Portal(); p != "" {
		return "/" + p
	}
	return "/"
}

// Label is the Indonesian display name used in templates.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleTeacher:
		return "Guru"
	case RoleStudent:
		return "Siswa"
	case RoleAlumni:
		return "Alumni"
	}
	return string(r)
}

// RoleForPortal is the inverse of Role.Portal.
func RoleForPortal(portal string) (Role, bool) {
	switch portal {
	case "guru":
		return RoleTeacher, true
	case "siswa":
		return RoleStudent, true
	case "alumni":
		return RoleAlumni, true
	}
	return "", false
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Image        string    `json:"image,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
