package mvc

import (
	"net/http"

	"github.com/contoso/university/internal/utils/requestctx"
	"github.com/gin-gonic/gin"
)

// Authorization returns the authorization stage. It enforces the roles of
// the endpoint selected by routing; endpoints without roles are public.
func Authorization() gin.HandlerFunc {
	return func(c *gin.Context) {
		e := CurrentEndpoint(c)
		if e == nil || len(e.Roles) == 0 {
			c.Next()
			return
		}

		p := requestctx.PrincipalFrom(c.Request.Context())
		if p == nil {
			c.Header("WWW-Authenticate", `Bearer realm="contoso"`)
			c.Data(http.StatusUnauthorized, "text/plain; charset=utf-8", []byte(http.StatusText(http.StatusUnauthorized)))
			c.Abort()
			return
		}
		for _, role := range e.Roles {
			if p.HasRole(role) {
				c.Next()
				return
			}
		}
		c.Data(http.StatusForbidden, "text/plain; charset=utf-8", []byte(http.StatusText(http.StatusForbidden)))
		c.Abort()
	}
}
