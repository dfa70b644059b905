package ginmw

import (
	"github.com/gin-gonic/gin"
	jsonguard "github.com/reoring/jsonguard"
	"github.com/reoring/jsonguard/middleware"
)

// ValidateJSON validates the request body against s with opt, stores the
// Verdict and decoded body in the request context, and on failure aborts with
// the problem payload (413, 400 or 422).
func ValidateJSON(s *jsonguard.Schema, opt middleware.Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := middleware.Evaluate(c.Request, s, opt)
		if res.Status != 0 {
			c.AbortWithStatusJSON(res.Status, res.Problem)
			return
		}
		ctx := middleware.ContextWithValue(middleware.ContextWithVerdict(c.Request.Context(), res.Verdict), res.Value)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetVerdict fetches the Verdict from gin.Context.
func GetVerdict(c *gin.Context) (jsonguard.Verdict, bool) {
	return middleware.VerdictFromContext(c.Request.Context())
}

// GetValue fetches the decoded request body from gin.Context.
func GetValue(c *gin.Context) (any, bool) {
	return middleware.ValueFromContext(c.Request.Context())
}
