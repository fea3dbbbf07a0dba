package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID returns the authenticated user ID injected by the Auth middleware.
// The zero value means the middleware did not run or the token carried no
// usable subject.
func ctxUserID(c echo.Context) int64 {
	id, _ := c.Get("user_id").(int64)
	return id
}

// requireUserID is ctxUserID with a fast-fail 401 for handlers that cannot
// answer without a principal.
func requireUserID(c echo.Context) (int64, error) {
	id := ctxUserID(c)
	if id <= 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
