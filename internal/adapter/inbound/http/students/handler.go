package studentshttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/contoso/university/internal/domain/student"
	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/port/inbound"
	"github.com/contoso/university/internal/transport/mvc"
	"github.com/contoso/university/internal/utils/pagination"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	saveErrorMessage   = "Unable to save changes. Try again, and if the problem persists see your system administrator."
	deleteErrorMessage = "Delete failed. Try again, and if the problem persists see your system administrator."
)

// IndexModel is the Students/Index view model.
type IndexModel struct {
	Students      []*model.Student
	Page          pagination.PageInfo
	CurrentSort   model.StudentSort
	NameSort      model.StudentSort
	DateSort      model.StudentSort
	CurrentFilter string
}

// FormModel is the Students/Create and Students/Edit view model. Values are
// kept as submitted so an invalid form can be shown again.
type FormModel struct {
	ID             int
	LastName       string
	FirstMidName   string
	EnrollmentDate string
	Errors         []string
}

// DeleteModel is the Students/Delete view model.
type DeleteModel struct {
	Student      *model.Student
	ErrorMessage string
}

// Handler serves the Students controller.
type Handler struct {
	domain student.StudentDomain
	roles  []string
	logger *zap.Logger
}

var _ inbound.StudentsHttpPort = (*Handler)(nil)

// NewHandler creates a new Students controller. Mutating actions require one
// of adminRoles; none leaves them open.
func NewHandler(domain student.StudentDomain, logger *zap.Logger, adminRoles ...string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{domain: domain, roles: adminRoles, logger: logger}
}

// RegisterRoutes registers the Students actions.
func (h *Handler) RegisterRoutes(r *mvc.Router) {
	var admin []mvc.EndpointOption
	if len(h.roles) > 0 {
		admin = append(admin, mvc.RequireRoles(h.roles...))
	}

	r.GET("Students", "Index", h.Index)
	r.GET("Students", "Details", h.Details)
	r.GET("Students", "Create", h.CreateForm, admin...)
	r.POST("Students", "Create", h.Create, admin...)
	r.GET("Students", "Edit", h.EditForm, admin...)
	r.POST("Students", "Edit", h.Edit, admin...)
	r.GET("Students", "Delete", h.DeleteConfirm, admin...)
	r.POST("Students", "Delete", h.Delete, admin...)
}

// Index handles GET /Students.
func (h *Handler) Index(c *gin.Context) {
	var filter model.StudentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		filter = model.StudentFilter{
			SortOrder:     c.Query("sortOrder"),
			SearchString:  c.Query("searchString"),
			CurrentFilter: c.Query("currentFilter"),
		}
	}
	filter.Normalize()

	page, err := h.domain.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	sort := filter.Sort()
	mvc.View(c, http.StatusOK, "", "Students", IndexModel{
		Students:      page.Items,
		Page:          page.Info,
		CurrentSort:   sort,
		NameSort:      sort.NameToggle(),
		DateSort:      sort.DateToggle(),
		CurrentFilter: filter.CurrentFilter,
	})
}

// Details handles GET /Students/Details/{id}.
func (h *Handler) Details(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}
	mvc.View(c, http.StatusOK, "", "Details", s)
}

// CreateForm handles GET /Students/Create.
func (h *Handler) CreateForm(c *gin.Context) {
	mvc.View(c, http.StatusOK, "", "Create", FormModel{})
}

// Create handles POST /Students/Create.
func (h *Handler) Create(c *gin.Context) {
	form := formFromRequest(c)

	var input model.StudentInput
	if err := c.ShouldBind(&input); err != nil {
		form.Errors = bindingMessages(err)
		mvc.View(c, http.StatusOK, "", "Create", form)
		return
	}

	s, err := h.domain.Create(c.Request.Context(), &input)
	if err != nil {
		h.formError(c, "Create", form, err)
		return
	}

	h.logger.Info("student created", zap.Int("student_id", s.ID))
	c.Redirect(http.StatusFound, mvc.RouterFrom(c).URL("Students", "Index"))
}

// EditForm handles GET /Students/Edit/{id}.
func (h *Handler) EditForm(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}
	mvc.View(c, http.StatusOK, "", "Edit", FormModel{
		ID:             s.ID,
		LastName:       s.LastName,
		FirstMidName:   s.FirstMidName,
		EnrollmentDate: s.EnrollmentDate.Format(dateLayout),
	})
}

// Edit handles POST /Students/Edit/{id}.
func (h *Handler) Edit(c *gin.Context) {
	id, ok := mvc.ID(c)
	if !ok {
		notFound(c)
		return
	}
	form := formFromRequest(c)
	form.ID = id

	var input model.StudentInput
	if err := c.ShouldBind(&input); err != nil {
		form.Errors = bindingMessages(err)
		mvc.View(c, http.StatusOK, "", "Edit", form)
		return
	}

	if _, err := h.domain.Update(c.Request.Context(), id, &input); err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			notFound(c)
			return
		}
		h.formError(c, "Edit", form, err)
		return
	}

	c.Redirect(http.StatusFound, mvc.RouterFrom(c).URL("Students", "Index"))
}

// DeleteConfirm handles GET /Students/Delete/{id}.
func (h *Handler) DeleteConfirm(c *gin.Context) {
	s, ok := h.load(c)
	if !ok {
		return
	}

	m := DeleteModel{Student: s}
	if failed, _ := strconv.ParseBool(c.Query("saveChangesError")); failed {
		m.ErrorMessage = deleteErrorMessage
	}
	mvc.View(c, http.StatusOK, "", "Delete", m)
}

// Delete handles POST /Students/Delete/{id}. A student already gone counts
// as deleted.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := mvc.ID(c)
	if !ok {
		notFound(c)
		return
	}

	router := mvc.RouterFrom(c)
	if err := h.domain.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, student.ErrStudentNotFound) {
		h.logger.Warn("delete student failed", zap.Int("student_id", id), zap.Error(err))
		c.Redirect(http.StatusFound, router.URL("Students", "Delete", "id", id, "saveChangesError", true))
		return
	}

	c.Redirect(http.StatusFound, router.URL("Students", "Index"))
}

// load fetches the student named by the id route value, writing 404 when
// there is none.
func (h *Handler) load(c *gin.Context) (*model.Student, bool) {
	id, ok := mvc.ID(c)
	if !ok {
		notFound(c)
		return nil, false
	}

	s, err := h.domain.Get(c.Request.Context(), id)
	if errors.Is(err, student.ErrStudentNotFound) {
		notFound(c)
		return nil, false
	}
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return nil, false
	}
	return s, true
}

// formError shows a failed save on the form again.
func (h *Handler) formError(c *gin.Context, view string, form FormModel, err error) {
	if msg, ok := domainMessage(err); ok {
		form.Errors = []string{msg}
	} else {
		h.logger.Warn("save student failed", zap.Error(err))
		form.Errors = []string{saveErrorMessage}
	}
	mvc.View(c, http.StatusOK, "", view, form)
}

func formFromRequest(c *gin.Context) FormModel {
	return FormModel{
		LastName:       c.PostForm("LastName"),
		FirstMidName:   c.PostForm("FirstMidName"),
		EnrollmentDate: c.PostForm("EnrollmentDate"),
	}
}
