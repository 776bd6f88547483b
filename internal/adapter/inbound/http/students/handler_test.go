package studentshttp

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/contoso/university/internal/domain/student"
	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/transport/mvc"
	"github.com/contoso/university/internal/utils/logger"
	"github.com/contoso/university/internal/utils/pagination"
	"github.com/contoso/university/internal/utils/requestctx"
	"github.com/contoso/university/web"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// MockStudentDomain is a mock implementation of student.StudentDomain.
type MockStudentDomain struct {
	mock.Mock
}

func (m *MockStudentDomain) List(ctx context.Context, filter model.StudentFilter) (*pagination.Page[*model.Student], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*model.Student]), args.Error(1)
}

func (m *MockStudentDomain) Get(ctx context.Context, id int) (*model.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentDomain) EnrollmentStats(ctx context.Context) ([]model.EnrollmentDateGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EnrollmentDateGroup), args.Error(1)
}

func (m *MockStudentDomain) Create(ctx context.Context, input *model.StudentInput) (*model.Student, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentDomain) Update(ctx context.Context, id int, input *model.StudentInput) (*model.Student, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Student), args.Error(1)
}

func (m *MockStudentDomain) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ student.StudentDomain = (*MockStudentDomain)(nil)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func carson() *model.Student {
	return &model.Student{
		ID:             1,
		LastName:       "Alexander",
		FirstMidName:   "Carson",
		EnrollmentDate: date("2005-09-01"),
		Enrollments: []model.Enrollment{
			{CourseID: 1050, StudentID: 1, Grade: model.GradePtr(model.GradeA), Course: &model.Course{CourseID: 1050, Title: "Chemistry"}},
			{CourseID: 4022, StudentID: 1, Course: &model.Course{CourseID: 4022, Title: "Microeconomics"}},
		},
	}
}

type setup struct {
	engine *gin.Engine
	domain *MockStudentDomain
	logs   *bytes.Buffer
}

func newSetup(t *testing.T, stages ...gin.HandlerFunc) *setup {
	t.Helper()

	domain := new(MockStudentDomain)
	router, err := mvc.NewRouter(mvc.DefaultRoutePattern)
	require.NoError(t, err)
	router.GET("Home", "Error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error page")
	})
	NewHandler(domain, nil, "admin").RegisterRoutes(router)

	views, err := mvc.LoadViews(web.Views(), router.Funcs())
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	engine := gin.New()
	engine.HTMLRender = views
	engine.Use(mvc.ExceptionHandler(router, logger.New(&logger.Config{Output: logs})))
	engine.Use(stages...)
	engine.Use(router.Routing(), mvc.Authorization())
	engine.NoRoute(router.Dispatch())

	return &setup{engine: engine, domain: domain, logs: logs}
}

func asAdmin(c *gin.Context) {
	p := &requestctx.Principal{Subject: "registrar", Roles: []string{"admin"}}
	c.Request = c.Request.WithContext(requestctx.WithPrincipal(c.Request.Context(), p))
	c.Next()
}

func (s *setup) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func document(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

func TestHandler_Index(t *testing.T) {
	t.Run("renders a page of students with sort and paging links", func(t *testing.T) {
		s := newSetup(t)
		p := &pagination.Pagination{Page: 2, PageSize: 3}
		page := pagination.NewPage([]*model.Student{carson()}, p, 8)
		s.domain.On("List", mock.Anything, model.StudentFilter{
			SortOrder:     "Date",
			SearchString:  "",
			CurrentFilter: "",
			PageNumber:    2,
		}).Return(page, nil)

		w := s.serve(httptest.NewRequest(http.MethodGet, "/Students?sortOrder=Date&pageNumber=2", nil))

		require.Equal(t, http.StatusOK, w.Code)
		doc := document(t, w)
		assert.Equal(t, 1, doc.Find("tr.student").Length())
		assert.Equal(t, "Alexander", doc.Find("tr.student .last-name").Text())
		assert.Equal(t, "2005-09-01", doc.Find("tr.student .enrollment-date").Text())

		nameSort, _ := doc.Find("#sort-name").Attr("href")
		assert.Equal(t, "/Students", nameSort)
		dateSort, _ := doc.Find("#sort-date").Attr("href")
		assert.Equal(t, "/Students?sortOrder=date_desc", dateSort)
		prev, _ := doc.Find("#previous").Attr("href")
		assert.Equal(t, "/Students?pageNumber=1&sortOrder=Date", prev)
		next, _ := doc.Find("#next").Attr("href")
		assert.Equal(t, "/Students?pageNumber=3&sortOrder=Date", next)
		s.domain.AssertExpectations(t)
	})

	t.Run("a new search restarts at the first page", func(t *testing.T) {
		s := newSetup(t)
		s.domain.On("List", mock.Anything, model.StudentFilter{
			SearchString:  "an",
			CurrentFilter: "an",
			PageNumber:    1,
		}).Return(pagination.NewPage[*model.Student](nil, pagination.New(1), 0), nil)

		w := s.serve(httptest.NewRequest(http.MethodGet, "/Students?searchString=an&pageNumber=3", nil))

		require.Equal(t, http.StatusOK, w.Code)
		doc := document(t, w)
		value, _ := doc.Find("#searchString").Attr("value")
		assert.Equal(t, "an", value)
		nameSort, _ := doc.Find("#sort-name").Attr("href")
		assert.Equal(t, "/Students?currentFilter=an&sortOrder=name_desc", nameSort)
		assert.Equal(t, 0, doc.Find("#next").Length())
	})

	t.Run("domain failure goes to the exception handler", func(t *testing.T) {
		s := newSetup(t)
		s.domain.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("no such table: student"))

		w := s.serve(httptest.NewRequest(http.MethodGet, "/Students", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "error page", w.Body.String())
		assert.Contains(t, s.logs.String(), "no such table")
	})
}

func TestHandler_Details(t *testing.T) {
	t.Run("renders enrollments", func(t *testing.T) {
		s := newSetup(t)
		s.domain.On("Get", mock.Anything, 1).Return(carson(), nil)

		w := s.serve(httptest.NewRequest(http.MethodGet, "/Students/Details/1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		doc := document(t, w)
		assert.Equal(t, "Carson", doc.Find("#first-name").Text())
		rows := doc.Find("tr.enrollment")
		require.Equal(t, 2, rows.Length())
		assert.Equal(t, "Chemistry", rows.Eq(0).Find(".course-title").Text())
		assert.Equal(t, "A", rows.Eq(0).Find(".grade").Text())
		assert.Equal(t, "No grade", rows.Eq(1).Find(".grade").Text())
	})

	t.Run("missing id", func(t *testing.T) {
		s := newSetup(t)
		w := s.serve(httptest.NewRequest(http.MethodGet, "/Students/Details", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		s.domain.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := newSetup(t)
		s.domain.On("Get", mock.Anything, 99).Return(nil, student.ErrStudentNotFound)

		w := s.serve(httptest.NewRequest(http.MethodGet, "/Students/Details/99", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Create(t *testing.T) {
	valid := url.Values{
		"LastName":       {"Lovelace"},
		"FirstMidName":   {"Ada"},
		"EnrollmentDate": {"2020-09-01"},
	}

	t.Run("requires the admin role", func(t *testing.T) {
		s := newSetup(t)
		w := s.serve(postForm("/Students/Create", valid))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		s.domain.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("shows the form", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		w := s.serve(httptest.NewRequest(http.MethodGet, "/Students/Create", nil))

		require.Equal(t, http.StatusOK, w.Code)
		doc := document(t, w)
		action, _ := doc.Find("form[method=post]").Attr("action")
		assert.Equal(t, "/Students/Create", action)
		assert.Equal(t, 1, doc.Find("#EnrollmentDate").Length())
	})

	t.Run("creates and redirects to the index", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Create", mock.Anything, mock.MatchedBy(func(in *model.StudentInput) bool {
			return in.LastName == "Lovelace" && in.FirstMidName == "Ada" && in.EnrollmentDate.Format("2006-01-02") == "2020-09-01"
		})).Return(&model.Student{ID: 9}, nil)

		w := s.serve(postForm("/Students/Create", valid))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/Students", w.Header().Get("Location"))
		s.domain.AssertExpectations(t)
	})

	t.Run("invalid form is shown again", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		future := time.Now().AddDate(1, 0, 0).Format("2006-01-02")

		w := s.serve(postForm("/Students/Create", url.Values{
			"LastName":       {strings.Repeat("x", 51)},
			"FirstMidName":   {""},
			"EnrollmentDate": {future},
		}))

		require.Equal(t, http.StatusOK, w.Code)
		doc := document(t, w)
		errs := doc.Find(".validation-summary li")
		assert.Equal(t, 3, errs.Length())
		text := errs.Text()
		assert.Contains(t, text, "Last Name cannot be longer than 50 characters.")
		assert.Contains(t, text, "The First Name field is required.")
		assert.Contains(t, text, "Enrollment Date cannot be in the future.")
		value, _ := doc.Find("#EnrollmentDate").Attr("value")
		assert.Equal(t, future, value)
		s.domain.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("malformed date", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		form := url.Values{"LastName": {"a"}, "FirstMidName": {"b"}, "EnrollmentDate": {"01/09/2020"}}

		w := s.serve(postForm("/Students/Create", form))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, document(t, w).Find(".validation-summary").Text(), "YYYY-MM-DD")
	})

	t.Run("rejected by the domain", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Create", mock.Anything, mock.Anything).Return(nil, student.ErrFutureEnrollment)

		w := s.serve(postForm("/Students/Create", valid))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, document(t, w).Find(".validation-summary").Text(), "cannot be in the future")
	})

	t.Run("save failure", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

		w := s.serve(postForm("/Students/Create", valid))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, document(t, w).Find(".validation-summary").Text(), "Unable to save changes.")
	})
}

func TestHandler_Edit(t *testing.T) {
	form := url.Values{
		"LastName":       {"Alexander"},
		"FirstMidName":   {"Carson J."},
		"EnrollmentDate": {"2005-09-01"},
	}

	t.Run("shows the current values", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Get", mock.Anything, 1).Return(carson(), nil)

		w := s.serve(httptest.NewRequest(http.MethodGet, "/Students/Edit/1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		doc := document(t, w)
		action, _ := doc.Find("form[method=post]").Attr("action")
		assert.Equal(t, "/Students/Edit/1", action)
		value, _ := doc.Find("#EnrollmentDate").Attr("value")
		assert.Equal(t, "2005-09-01", value)
	})

	t.Run("saves and redirects", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Update", mock.Anything, 1, mock.MatchedBy(func(in *model.StudentInput) bool {
			return in.FirstMidName == "Carson J."
		})).Return(carson(), nil)

		w := s.serve(postForm("/Students/Edit/1", form))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/Students", w.Header().Get("Location"))
	})

	t.Run("unknown student", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Update", mock.Anything, 42, mock.Anything).Return(nil, student.ErrStudentNotFound)

		w := s.serve(postForm("/Students/Edit/42", form))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	t.Run("confirmation page", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Get", mock.Anything, 1).Return(carson(), nil)

		w := s.serve(httptest.NewRequest(http.MethodGet, "/Students/Delete/1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		doc := document(t, w)
		assert.Equal(t, "Alexander", doc.Find("#last-name").Text())
		assert.Equal(t, 0, doc.Find("#delete-error").Length())
	})

	t.Run("confirmation page after a failed delete", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Get", mock.Anything, 1).Return(carson(), nil)

		w := s.serve(httptest.NewRequest(http.MethodGet, "/Students/Delete/1?saveChangesError=true", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, document(t, w).Find("#delete-error").Text(), "Delete failed.")
	})

	t.Run("deletes and redirects", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Delete", mock.Anything, 1).Return(nil)

		w := s.serve(postForm("/Students/Delete/1", url.Values{}))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/Students", w.Header().Get("Location"))
	})

	t.Run("already deleted", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Delete", mock.Anything, 1).Return(student.ErrStudentNotFound)

		w := s.serve(postForm("/Students/Delete/1", url.Values{}))
		assert.Equal(t, "/Students", w.Header().Get("Location"))
	})

	t.Run("failure returns to the confirmation page", func(t *testing.T) {
		s := newSetup(t, asAdmin)
		s.domain.On("Delete", mock.Anything, 1).Return(errors.New("deadlock"))

		w := s.serve(postForm("/Students/Delete/1", url.Values{}))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/Students/Delete/1?saveChangesError=true", w.Header().Get("Location"))
	})
}

func TestNotFuture(t *testing.T) {
	type input struct {
		At time.Time `binding:"notfuture"`
	}

	assert.NoError(t, binding.Validator.ValidateStruct(input{At: time.Now().Add(-time.Hour)}))
	assert.Error(t, binding.Validator.ValidateStruct(input{At: time.Now().Add(time.Hour)}))
}

func TestBindingMessages(t *testing.T) {
	msgs := bindingMessages(errors.New("parsing time"))
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "YYYY-MM-DD")
}
