package mvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/contoso/university/internal/utils/logger"
	"github.com/contoso/university/internal/utils/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorPath is the action the exception handler re-executes.
const ErrorPath = "/Home/Error"

// ErrorFeature describes the failure that caused a re-execution.
type ErrorFeature struct {
	Path  string
	Err   error
	Stack []byte
}

type errorFeatureKey struct{}

// ErrorFeatureFrom returns the failure being handled, or nil when the
// request was not re-executed.
func ErrorFeatureFrom(ctx context.Context) *ErrorFeature {
	f, _ := ctx.Value(errorFeatureKey{}).(*ErrorFeature)
	return f
}

// ErrPanic wraps a value recovered from a panicking handler.
var ErrPanic = errors.New("handler panicked")

// guard runs the rest of the chain and hands any unhandled error or panic
// to onError.
func guard(c *gin.Context, onError func(c *gin.Context, err error, stack []byte)) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if ok {
				err = fmt.Errorf("%w: %w", ErrPanic, err)
			} else {
				err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
			onError(c, err, debug.Stack())
		}
	}()

	c.Next()

	if err := unhandledError(c); err != nil {
		onError(c, err, nil)
	}
}

// unhandledError returns the last private error pushed by a handler that
// wrote no response.
func unhandledError(c *gin.Context) error {
	if c.Writer.Written() {
		return nil
	}
	if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
		return errs.Last().Err
	}
	return nil
}

// ExceptionHandler returns the production error handling stage. Unhandled
// errors and panics are logged and the request is re-executed against
// ErrorPath with status 500, so no diagnostic detail reaches the client.
func ExceptionHandler(router *Router, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.New(nil)
	}

	return func(c *gin.Context) {
		if ErrorFeatureFrom(c.Request.Context()) != nil {
			c.Next()
			return
		}

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

			feature := &ErrorFeature{Path: c.Request.URL.Path, Err: err, Stack: stack}
			req := c.Request.Clone(context.WithValue(c.Request.Context(), errorFeatureKey{}, feature))
			req.URL.Path = ErrorPath
			req.URL.RawPath = ""
			c.Request = req

			c.Status(http.StatusInternalServerError)
			if !router.Execute(c, ErrorPath) {
				c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(http.StatusText(http.StatusInternalServerError)))
			}
		})
	}
}
