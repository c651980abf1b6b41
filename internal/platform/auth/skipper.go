package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// publicPaths lists infrastructure endpoints that never need a token.
var publicPaths = map[string]bool{
	"/health":    true,
	"/health/db": true,
	"/metrics":   true,
}

// AuthSkipper returns true for requests that bypass RequireToken: the
// infrastructure endpoints and the /auth group, which is how callers obtain
// a token in the first place.
func AuthSkipper(c echo.Context) bool {
	if c.Request().Method == "OPTIONS" {
		return true
	}
	return IsPublicPath(c.Path()) || IsPublicPath(c.Request().URL.Path)
}

// IsPublicPath reports whether path bypasses authentication.
func IsPublicPath(path string) bool {
	return publicPaths[path] || path == "/auth" || strings.HasPrefix(path, "/auth/")
}
