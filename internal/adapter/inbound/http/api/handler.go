package apihttp

import (
	"net/http"
	"strconv"

	"github.com/contoso/university/internal/domain/course"
	"github.com/contoso/university/internal/domain/student"
	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/port/inbound"
	apperrors "github.com/contoso/university/internal/utils/errors"
	"github.com/contoso/university/internal/utils/logger"
	"github.com/contoso/university/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// StudentListResponse is one page of students.
type StudentListResponse struct {
	Items    []*model.StudentResponse `json:"items"`
	PageInfo pagination.PageInfo      `json:"page_info"`
}

// Handler serves the read-only JSON API.
type Handler struct {
	students student.StudentDomain
	courses  course.CourseDomain
}

var _ inbound.SchoolAPIPort = (*Handler)(nil)

// NewHandler creates a new API handler.
func NewHandler(students student.StudentDomain, courses course.CourseDomain) *Handler {
	return &Handler{students: students, courses: courses}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/students", h.ListStudents)
	r.GET("/students/:id", h.GetStudent)
	r.GET("/courses", h.ListCourses)
	r.GET("/stats/enrollment-dates", h.EnrollmentStats)
}

// ListStudents handles GET /students.
//
//	@Summary		List students
//	@Description	Search, sort and page students the same way as the Students page
//	@Tags			Students
//	@Produce		json
//	@Param			searchString	query		string	false	"Match on last or first name"
//	@Param			currentFilter	query		string	false	"Search carried over while paging"
//	@Param			sortOrder		query		string	false	"Sort order"	Enums(name_desc, Date, date_desc)
//	@Param			pageNumber		query		int		false	"Page number"
//	@Success		200				{object}	StudentListResponse
//	@Failure		400				{object}	model.ErrorResponse
//	@Failure		500				{object}	model.ErrorResponse
//	@Router			/students [get]
func (h *Handler) ListStudents(c *gin.Context) {
	var filter model.StudentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    "invalid_query",
			Message: err.Error(),
		})
		return
	}

	page, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := StudentListResponse{
		Items:    make([]*model.StudentResponse, 0, len(page.Items)),
		PageInfo: page.Info,
	}
	for _, s := range page.Items {
		resp.Items = append(resp.Items, s.ToResponse())
	}
	c.JSON(http.StatusOK, resp)
}

// GetStudent handles GET /students/{id}.
//
//	@Summary		Get student
//	@Description	Get a student with enrollments and course titles
//	@Tags			Students
//	@Produce		json
//	@Param			id	path		int	true	"Student ID"
//	@Success		200	{object}	model.StudentResponse
//	@Failure		400	{object}	model.ErrorResponse
//	@Failure		404	{object}	model.ErrorResponse
//	@Router			/students/{id} [get]
func (h *Handler) GetStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Code:    "invalid_id",
			Message: "Student ID must be a positive integer",
		})
		return
	}

	s, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.ToResponse())
}

// ListCourses handles GET /courses.
//
//	@Summary		List courses
//	@Tags			Courses
//	@Produce		json
//	@Success		200	{array}		model.Course
//	@Failure		500	{object}	model.ErrorResponse
//	@Router			/courses [get]
func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// EnrollmentStats handles GET /stats/enrollment-dates.
//
//	@Summary		Enrollment statistics
//	@Description	Number of students per enrollment date
//	@Tags			Stats
//	@Produce		json
//	@Success		200	{array}		model.EnrollmentDateGroup
//	@Failure		500	{object}	model.ErrorResponse
//	@Router			/stats/enrollment-dates [get]
func (h *Handler) EnrollmentStats(c *gin.Context) {
	groups, err := h.students.EnrollmentStats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if groups == nil {
		groups = []model.EnrollmentDateGroup{}
	}
	c.JSON(http.StatusOK, groups)
}

// handleError maps domain errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		logger.FromContext(c.Request.Context()).Error("api request failed",
			logger.Err(err),
			"path", c.Request.URL.Path,
		)
		c.JSON(status, model.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
		return
	}

	c.JSON(status, model.ErrorResponse{
		Code:    apperrors.Code(err),
		Message: err.Error(),
	})
}
