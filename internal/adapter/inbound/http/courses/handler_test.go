package courseshttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/contoso/university/internal/adapter/outbound/sqldb"
	"github.com/contoso/university/internal/domain/course"
	"github.com/contoso/university/internal/infra/config"
	"github.com/contoso/university/internal/infra/database"
	"github.com/contoso/university/internal/infra/seed"
	"github.com/contoso/university/internal/transport/mvc"
	"github.com/contoso/university/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{}
	cfg.ConnectionStrings.DefaultConnection = ":memory:"
	cfg.Database.Provider = "sqlite"

	factory, err := database.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })
	require.NoError(t, seed.CreateDbIfNotExists(context.Background(), factory, seed.NewDbInitializer(nil), seed.PolicyFatal, nil, nil))

	router, err := mvc.NewRouter(mvc.DefaultRoutePattern)
	require.NoError(t, err)
	NewHandler(course.NewCourseDomain(sqldb.NewCourseAdapter(factory), nil)).RegisterRoutes(router)

	views, err := mvc.LoadViews(web.Views(), router.Funcs())
	require.NoError(t, err)

	engine := gin.New()
	engine.HTMLRender = views
	engine.Use(router.Routing())
	engine.NoRoute(router.Dispatch())
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandler_Index(t *testing.T) {
	w := get(newEngine(t), "/Courses")

	require.Equal(t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	rows := doc.Find("tr.course")
	require.Equal(t, 7, rows.Length())
	assert.Equal(t, "1045", rows.Eq(0).Find(".number").Text())
	assert.Equal(t, "Calculus", rows.Eq(0).Find(".title").Text())
	link, _ := rows.Eq(0).Find("a").Attr("href")
	assert.Equal(t, "/Courses/Details/1045", link)
}

func TestHandler_Details(t *testing.T) {
	engine := newEngine(t)

	t.Run("lists enrolled students", func(t *testing.T) {
		w := get(engine, "/Courses/Details/1050")

		require.Equal(t, http.StatusOK, w.Code)
		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		assert.Equal(t, "Chemistry", doc.Find("#title").Text())

		var names []string
		doc.Find("tr.enrollment .student-name").Each(func(_ int, s *goquery.Selection) {
			names = append(names, strings.TrimSpace(s.Text()))
		})
		assert.Equal(t, []string{"Alexander, Carson", "Anand, Arturo", "Barzdukas, Gytis"}, names)
	})

	t.Run("unknown course", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(engine, "/Courses/Details/9999").Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(engine, "/Courses/Details/chemistry").Code)
	})
}
