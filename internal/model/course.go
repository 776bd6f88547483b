package model

// Course is a course offered by the university. CourseID is assigned by the
// registrar, not generated by the database.
type Course struct {
	CourseID    int          `json:"course_id" gorm:"primaryKey;autoIncrement:false"`
	Title       string       `json:"title" gorm:"size:50"`
	Credits     int          `json:"credits"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name.
func (Course) TableName() string {
	return "course"
}
