package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/animeshelf/animes-api/internal/core/domain"
)

const principalKey = "principal"

// SetPrincipal attaches the authenticated caller to the request context.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the authenticated caller, or nil for anonymous requests.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(principalKey).(*domain.Principal)
	return p
}
