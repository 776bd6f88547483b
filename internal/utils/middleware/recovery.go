package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/contoso/university/internal/utils/logger"
	"github.com/gin-gonic/gin"
)

// Recovery returns the outermost panic guard. Panics normally stop at the
// exception handling stage; this one only catches failures of that stage.
// If log is nil, it will use a default logger.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.New(nil)
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c),
					"stack", string(debug.Stack()),
				)

				if !c.Writer.Written() {
					c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(http.StatusText(http.StatusInternalServerError)))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
