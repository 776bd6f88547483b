package courseshttp

import (
	"net/http"

	"github.com/contoso/university/internal/domain/course"
	"github.com/contoso/university/internal/port/inbound"
	"github.com/contoso/university/internal/transport/mvc"
	apperrors "github.com/contoso/university/internal/utils/errors"
	"github.com/gin-gonic/gin"
)

// Handler serves the Courses controller.
type Handler struct {
	domain course.CourseDomain
}

var _ inbound.CoursesHttpPort = (*Handler)(nil)

// NewHandler creates a new Courses controller.
func NewHandler(domain course.CourseDomain) *Handler {
	return &Handler{domain: domain}
}

// RegisterRoutes registers the Courses actions.
func (h *Handler) RegisterRoutes(r *mvc.Router) {
	r.GET("Courses", "Index", h.Index)
	r.GET("Courses", "Details", h.Details)
}

// Index handles GET /Courses.
func (h *Handler) Index(c *gin.Context) {
	courses, err := h.domain.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	mvc.View(c, http.StatusOK, "", "Courses", courses)
}

// Details handles GET /Courses/Details/{id}.
func (h *Handler) Details(c *gin.Context) {
	id, ok := mvc.ID(c)
	if !ok {
		c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}

	crs, err := h.domain.Get(c.Request.Context(), id)
	if apperrors.IsNotFound(err) {
		c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	mvc.View(c, http.StatusOK, "", "Course Details", crs)
}
