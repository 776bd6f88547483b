package homehttp

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/contoso/university/internal/model"
	"github.com/contoso/university/internal/transport/mvc"
	"github.com/contoso/university/internal/utils/logger"
	"github.com/contoso/university/internal/utils/middleware"
	"github.com/contoso/university/internal/utils/pagination"
	"github.com/contoso/university/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
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
	return m.Called(ctx, id).Error(0)
}

func newEngine(t *testing.T, domain *MockStudentDomain, logs *bytes.Buffer) *gin.Engine {
	t.Helper()

	router, err := mvc.NewRouter(mvc.DefaultRoutePattern)
	require.NoError(t, err)
	NewHandler(domain).RegisterRoutes(router)
	router.GET("Boom", "Index", func(c *gin.Context) {
		panic("secret failure detail")
	})

	views, err := mvc.LoadViews(web.Views(), router.Funcs())
	require.NoError(t, err)

	engine := gin.New()
	engine.HTMLRender = views
	engine.Use(middleware.RequestID())
	engine.Use(mvc.ExceptionHandler(router, logger.New(&logger.Config{Output: logs})))
	engine.Use(router.Routing(), mvc.Authorization())
	engine.NoRoute(router.Dispatch())
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandler_Index(t *testing.T) {
	engine := newEngine(t, new(MockStudentDomain), &bytes.Buffer{})

	w := get(engine, "/")

	require.Equal(t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	assert.Equal(t, "Home Page - Contoso University", doc.Find("title").Text())
	students, _ := doc.Find(`nav a[href="/Students"]`).Attr("href")
	assert.Equal(t, "/Students", students)
}

func TestHandler_About(t *testing.T) {
	t.Run("renders enrollment statistics", func(t *testing.T) {
		domain := new(MockStudentDomain)
		domain.On("EnrollmentStats", mock.Anything).Return([]model.EnrollmentDateGroup{
			{EnrollmentDate: time.Date(2002, 9, 1, 0, 0, 0, 0, time.UTC), StudentCount: 3},
			{EnrollmentDate: time.Date(2005, 9, 1, 0, 0, 0, 0, time.UTC), StudentCount: 2},
		}, nil)
		engine := newEngine(t, domain, &bytes.Buffer{})

		w := get(engine, "/Home/About")

		require.Equal(t, http.StatusOK, w.Code)
		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		rows := doc.Find("#enrollment-stats tr")
		require.Equal(t, 3, rows.Length())
		assert.Equal(t, "2002-09-01", strings.TrimSpace(rows.Eq(1).Find("td").Eq(0).Text()))
		assert.Equal(t, "3", strings.TrimSpace(rows.Eq(1).Find("td").Eq(1).Text()))
	})

	t.Run("failure is handled by the error page", func(t *testing.T) {
		domain := new(MockStudentDomain)
		domain.On("EnrollmentStats", mock.Anything).Return(nil, errors.New("relation does not exist"))
		logs := &bytes.Buffer{}
		engine := newEngine(t, domain, logs)

		w := get(engine, "/Home/About")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "relation does not exist")
		assert.Contains(t, logs.String(), "relation does not exist")
	})
}

func TestHandler_Privacy(t *testing.T) {
	w := get(newEngine(t, new(MockStudentDomain), &bytes.Buffer{}), "/Home/Privacy")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Privacy Policy")
}

func TestHandler_Error(t *testing.T) {
	t.Run("direct request", func(t *testing.T) {
		w := get(newEngine(t, new(MockStudentDomain), &bytes.Buffer{}), "/Home/Error")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("re-executed after an unhandled failure", func(t *testing.T) {
		logs := &bytes.Buffer{}
		w := get(newEngine(t, new(MockStudentDomain), logs), "/Boom")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), doc.Find("#request-id").Text())
		assert.Contains(t, doc.Find("h2.text-danger").Text(), "An error occurred while processing your request.")
		assert.NotContains(t, doc.Text(), "secret failure detail")
		assert.Equal(t, 1, strings.Count(logs.String(), "An unhandled exception has occurred while executing the request."))
	})
}
