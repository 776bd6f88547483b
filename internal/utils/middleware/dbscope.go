package middleware

import (
	"github.com/contoso/university/internal/infra/database"
	"github.com/gin-gonic/gin"
)

// SchoolContextScope gives every request its own SchoolContext, closed when
// the rest of the chain returns or panics.
func SchoolContextScope(factory *database.ContextFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := factory.Create(c.Request.Context())
		defer sc.Close()

		c.Request = c.Request.WithContext(database.WithSchoolContext(c.Request.Context(), sc))
		c.Next()
	}
}
