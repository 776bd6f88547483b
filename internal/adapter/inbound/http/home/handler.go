package homehttp

import (
	"net/http"

	"github.com/contoso/university/internal/domain/student"
	"github.com/contoso/university/internal/port/inbound"
	"github.com/contoso/university/internal/transport/mvc"
	"github.com/gin-gonic/gin"
)

// Handler serves the Home controller.
type Handler struct {
	students student.StudentDomain
}

var _ inbound.HomeHttpPort = (*Handler)(nil)

// NewHandler creates a new Home controller.
func NewHandler(students student.StudentDomain) *Handler {
	return &Handler{students: students}
}

// RegisterRoutes registers the Home actions.
func (h *Handler) RegisterRoutes(r *mvc.Router) {
	r.GET("Home", "Index", h.Index)
	r.GET("Home", "About", h.About)
	r.GET("Home", "Privacy", h.Privacy)
	r.GET("Home", "Error", h.Error)
}

// Index handles GET /.
func (h *Handler) Index(c *gin.Context) {
	mvc.View(c, http.StatusOK, "", "Home Page", nil)
}

// About handles GET /Home/About.
func (h *Handler) About(c *gin.Context) {
	groups, err := h.students.EnrollmentStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	mvc.View(c, http.StatusOK, "", "Student Body Statistics", groups)
}

// Privacy handles GET /Home/Privacy.
func (h *Handler) Privacy(c *gin.Context) {
	mvc.View(c, http.StatusOK, "", "Privacy Policy", nil)
}

// Error handles /Home/Error. Reached directly it renders with 200; after a
// re-execution it keeps the 500 set by the exception handler.
func (h *Handler) Error(c *gin.Context) {
	status := http.StatusOK
	if mvc.ErrorFeatureFrom(c.Request.Context()) != nil {
		status = http.StatusInternalServerError
	}
	c.Header("Cache-Control", "no-store")
	mvc.View(c, status, "Home/Error", "Error", nil)
}
