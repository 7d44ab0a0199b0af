package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles stored on users.role. The three buckets are closed: every identity
// carries exactly one of them.
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
	RoleAdmin   = "ADMIN"
)

// Identity is a stored user record with a role.
type Identity struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"-"`
}

// EnrolledCourse is one row of the student dashboard course list.
type EnrolledCourse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	TeacherName string    `json:"teacherName"`
}

// AttendanceRecord is a single presence flag for a calendar day.
type AttendanceRecord struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Present bool   `json:"present"`
}

// TaughtCourse is one row of the teacher dashboard course list.
type TaughtCourse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	StudentCount int       `json:"studentCount"`
}

// RoleCounts groups the identity population by role. All three buckets are
// always present, zero included.
type RoleCounts struct {
	Students int `json:"students"`
	Teachers int `json:"teachers"`
	Admins   int `json:"admins"`
}

// CourseSummary is one row of the admin recent-courses list.
type CourseSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TeacherName  string    `json:"teacherName"`
	StudentCount int       `json:"studentCount"`
	CreatedAt    time.Time `json:"-"`
}
