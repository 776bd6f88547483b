package model

// ErrorResponse represents an error in JSON API responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StudentResponse is a student in JSON API responses.
type StudentResponse struct {
	ID             int                  `json:"id"`
	LastName       string               `json:"last_name"`
	FirstMidName   string               `json:"first_mid_name"`
	EnrollmentDate string               `json:"enrollment_date"`
	Enrollments    []EnrollmentResponse `json:"enrollments,omitempty"`
}

// EnrollmentResponse is an enrollment in JSON API responses.
type EnrollmentResponse struct {
	CourseID    int    `json:"course_id"`
	CourseTitle string `json:"course_title"`
	Grade       string `json:"grade,omitempty"`
}

// ToResponse converts a Student to StudentResponse.
func (s *Student) ToResponse() *StudentResponse {
	resp := &StudentResponse{
		ID:             s.ID,
		LastName:       s.LastName,
		FirstMidName:   s.FirstMidName,
		EnrollmentDate: s.EnrollmentDate.Format("2006-01-02"),
	}
	for _, e := range s.Enrollments {
		er := EnrollmentResponse{CourseID: e.CourseID}
		if e.Course != nil {
			er.CourseTitle = e.Course.Title
		}
		if e.Grade != nil {
			er.Grade = string(*e.Grade)
		}
		resp.Enrollments = append(resp.Enrollments, er)
	}
	return resp
}
