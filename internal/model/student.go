package model

import (
	"strings"
	"time"
)

// Student is a person enrolled at the university.
type Student struct {
	ID             int          `json:"id" gorm:"primaryKey"`
	LastName       string       `json:"last_name" gorm:"size:50;not null"`
	FirstMidName   string       `json:"first_mid_name" gorm:"column:first_mid_name;size:50;not null"`
	EnrollmentDate time.Time    `json:"enrollment_date" gorm:"not null"`
	Enrollments    []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name.
func (Student) TableName() string {
	return "student"
}

// FullName returns "LastName, FirstMidName".
func (s *Student) FullName() string {
	return s.LastName + ", " + s.FirstMidName
}

// StudentInput is the create/edit form for a student.
type StudentInput struct {
	LastName       string    `form:"LastName" json:"last_name" binding:"required,max=50"`
	FirstMidName   string    `form:"FirstMidName" json:"first_mid_name" binding:"required,max=50"`
	EnrollmentDate time.Time `form:"EnrollmentDate" json:"enrollment_date" time_format:"2006-01-02" binding:"required,notfuture"`
}

// Apply copies the input onto s.
func (in *StudentInput) Apply(s *Student) {
	s.LastName = strings.TrimSpace(in.LastName)
	s.FirstMidName = strings.TrimSpace(in.FirstMidName)
	s.EnrollmentDate = in.EnrollmentDate
}

// StudentSort is the sort order accepted by the student index.
type StudentSort string

const (
	SortByName     StudentSort = ""
	SortByNameDesc StudentSort = "name_desc"
	SortByDate     StudentSort = "Date"
	SortByDateDesc StudentSort = "date_desc"
)

// ParseStudentSort returns the sort for s, defaulting to last name ascending.
func ParseStudentSort(s string) StudentSort {
	switch StudentSort(s) {
	case SortByNameDesc, SortByDate, SortByDateDesc:
		return StudentSort(s)
	default:
		return SortByName
	}
}

// NameToggle is the sort a "Last Name" column header link switches to.
func (s StudentSort) NameToggle() StudentSort {
	if s == SortByName {
		return SortByNameDesc
	}
	return SortByName
}

// DateToggle is the sort an "Enrollment Date" column header link switches to.
func (s StudentSort) DateToggle() StudentSort {
	if s == SortByDate {
		return SortByDateDesc
	}
	return SortByDate
}

// StudentFilter holds the query of the student index.
type StudentFilter struct {
	SortOrder     string `form:"sortOrder" json:"sort_order"`
	SearchString  string `form:"searchString" json:"search_string"`
	CurrentFilter string `form:"currentFilter" json:"current_filter"`
	PageNumber    int    `form:"pageNumber" json:"page_number"`
}

// Normalize applies the index rules: a new search restarts at page 1,
// otherwise the previous filter is kept while paging.
func (f *StudentFilter) Normalize() {
	f.SearchString = strings.TrimSpace(f.SearchString)
	if f.SearchString != "" {
		f.PageNumber = 1
	} else {
		f.SearchString = strings.TrimSpace(f.CurrentFilter)
	}
	f.CurrentFilter = f.SearchString
	if f.PageNumber < 1 {
		f.PageNumber = 1
	}
}

// Sort returns the parsed sort order.
func (f *StudentFilter) Sort() StudentSort {
	return ParseStudentSort(f.SortOrder)
}

// StudentQuery is a normalized student search passed to persistence.
type StudentQuery struct {
	Search string
	Sort   StudentSort
	Offset int
	Limit  int
}
