package model

import "time"

// Grade is a letter grade. A nil *Grade means no grade has been assigned.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// IsValid checks if the grade is a known letter grade.
func (g Grade) IsValid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeF:
		return true
	default:
		return false
	}
}

// GradePtr returns a pointer to g, for building enrollments.
func GradePtr(g Grade) *Grade {
	return &g
}

// Enrollment links a student to a course with an optional grade.
type Enrollment struct {
	EnrollmentID int      `json:"enrollment_id" gorm:"primaryKey"`
	CourseID     int      `json:"course_id" gorm:"not null;index"`
	StudentID    int      `json:"student_id" gorm:"not null;index"`
	Grade        *Grade   `json:"grade,omitempty" gorm:"size:1"`
	Course       *Course  `json:"course,omitempty" gorm:"foreignKey:CourseID;references:CourseID"`
	Student      *Student `json:"-" gorm:"foreignKey:StudentID;references:ID"`
}

// TableName returns the database table name.
func (Enrollment) TableName() string {
	return "enrollment"
}

// GradeLabel renders the grade, or "No grade".
func (e *Enrollment) GradeLabel() string {
	if e.Grade == nil {
		return "No grade"
	}
	return string(*e.Grade)
}

// EnrollmentDateGroup is one row of the enrollment statistics on the About page.
type EnrollmentDateGroup struct {
	EnrollmentDate time.Time `json:"enrollment_date" msgpack:"enrollment_date"`
	StudentCount   int       `json:"student_count" msgpack:"student_count"`
}
