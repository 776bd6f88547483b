package mvc

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/contoso/university/internal/infra/database"
	"github.com/contoso/university/internal/utils/logger"
	"github.com/contoso/university/internal/utils/middleware"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var devPage = template.Must(template.New("dev").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Internal Server Error</title>
<style>
body { font-family: Segoe UI, Tahoma, Arial, sans-serif; margin: 2em; color: #222; }
h1 { color: #44525e; }
.titleerror { color: #c00; font-size: 1.3em; }
.database { background: #fff8e5; border: 1px solid #f0c36d; padding: 1em; margin: 1em 0; }
pre { background: #f5f5f5; padding: 1em; overflow-x: auto; }
th { text-align: left; padding-right: 1em; }
</style>
</head>
<body>
<h1>An unhandled exception occurred while processing the request.</h1>
<p class="titleerror">{{.Type}}: {{.Message}}</p>
{{if .Database}}
<div class="database" id="database-error">
<h2>A database operation failed while processing the request.</h2>
<p>The school database may not exist or its schema may be out of date.</p>
<p>Apply the migrations with <code>schoolctl migrate up</code>, or restart the
server so the startup initialization can create and seed the database.</p>
{{if .SQLState}}<p>SQLSTATE <code>{{.SQLState}}</code></p>{{end}}
</div>
{{end}}
<h2>Request</h2>
<table>
<tr><th>Method</th><td>{{.Method}}</td></tr>
<tr><th>Path</th><td>{{.Path}}</td></tr>
<tr><th>Query</th><td>{{.Query}}</td></tr>
<tr><th>Request ID</th><td>{{.RequestID}}</td></tr>
</table>
<h2>Headers</h2>
<table>
{{range .Headers}}<tr><th>{{.Name}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
{{if .Stack}}<h2>Stack</h2>
<pre>{{.Stack}}</pre>{{end}}
</body>
</html>
`))

type devHeader struct {
	Name  string
	Value string
}

type devPageData struct {
	Type      string
	Message   string
	Database  bool
	SQLState  string
	Method    string
	Path      string
	Query     string
	RequestID string
	Headers   []devHeader
	Stack     string
}

// DeveloperExceptionPage returns the development error handling stage. It
// renders the failure with request details, and a database hint for errors
// raised by the database layer.
func DeveloperExceptionPage(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.New(nil)
	}

	return func(c *gin.Context) {
		guard(c, func(c *gin.Context, err error, stack []byte) {
			log.Error("An unhandled exception has occurred while executing the request.",
				logger.Err(err),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", middleware.GetRequestID(c),
			)
			c.Abort()
			if c.Writer.Written() {
				return
			}

			data := devPageData{
				Type:      errorType(err),
				Message:   err.Error(),
				Method:    c.Request.Method,
				Path:      c.Request.URL.Path,
				Query:     c.Request.URL.RawQuery,
				RequestID: middleware.GetRequestID(c),
				Stack:     string(stack),
			}
			data.Database, data.SQLState = DatabaseErrorInfo(err)
			for name, values := range c.Request.Header {
				if strings.EqualFold(name, "Authorization") || strings.EqualFold(name, "Cookie") {
					continue
				}
				data.Headers = append(data.Headers, devHeader{Name: name, Value: strings.Join(values, ", ")})
			}
			sort.Slice(data.Headers, func(i, j int) bool { return data.Headers[i].Name < data.Headers[j].Name })

			c.Status(http.StatusInternalServerError)
			c.Header("Content-Type", "text/html; charset=utf-8")
			if err := devPage.Execute(c.Writer, data); err != nil {
				log.Error("render developer exception page", logger.Err(err))
			}
		})
	}
}

// errorType names the innermost error type of err.
func errorType(err error) string {
	for {
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			if next := u.Unwrap(); next != nil {
				err = next
				continue
			}
		case interface{ Unwrap() []error }:
			if errs := u.Unwrap(); len(errs) > 0 {
				err = errs[len(errs)-1]
				continue
			}
		}
		return fmt.Sprintf("%T", err)
	}
}

// DatabaseErrorInfo reports whether err came from the database layer and, for
// PostgreSQL errors, its SQLSTATE code.
func DatabaseErrorInfo(err error) (bool, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return true, pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return true, string(pqErr.Code)
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true, ""
	}
	if errors.Is(err, database.ErrContextDisposed) {
		return true, ""
	}
	// SQLite reports a missing schema only through its message.
	if strings.Contains(err.Error(), "no such table") {
		return true, ""
	}
	return false, ""
}
