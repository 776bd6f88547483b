package mvc

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/contoso/university/internal/utils/middleware"
	"github.com/gin-gonic/gin"
)

// StaticRoute labels requests served from static files in logs and metrics.
const StaticRoute = "static"

// StaticFiles returns a stage that serves GET and HEAD requests for files in
// fsys and ends the pipeline. Directories and missing files fall through.
func StaticFiles(fsys fs.FS) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		name := strings.TrimPrefix(path.Clean("/"+c.Request.URL.Path), "/")
		if name == "" || !fs.ValidPath(name) {
			c.Next()
			return
		}
		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			c.Next()
			return
		}

		c.Set(middleware.RouteKey, StaticRoute)
		c.FileFromFS(name, http.FS(fsys))
		c.Abort()
	}
}
