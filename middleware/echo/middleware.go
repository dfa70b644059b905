package echomw

import (
	"github.com/labstack/echo/v4"
	jsonguard "github.com/reoring/jsonguard"
	"github.com/reoring/jsonguard/middleware"
)

// ValidateJSON validates the request body against s with opt, stores the
// Verdict and decoded body in the request context, or returns the problem
// payload (413, 400 or 422) when the body is rejected.
func ValidateJSON(s *jsonguard.Schema, opt middleware.Options) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := middleware.Evaluate(c.Request(), s, opt)
			if res.Status != 0 {
				return c.JSON(res.Status, res.Problem)
			}
			ctx := middleware.ContextWithValue(middleware.ContextWithVerdict(c.Request().Context(), res.Verdict), res.Value)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetVerdict fetches the Verdict from echo.Context.
func GetVerdict(c echo.Context) (jsonguard.Verdict, bool) {
	return middleware.VerdictFromContext(c.Request().Context())
}

// GetValue fetches the decoded request body from echo.Context.
func GetValue(c echo.Context) (any, bool) {
	return middleware.ValueFromContext(c.Request().Context())
}
