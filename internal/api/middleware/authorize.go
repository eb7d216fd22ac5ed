package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/animeshelf/animes-api/internal/api/metrics"
	"github.com/animeshelf/animes-api/internal/core/domain"
)

// Decision is the outcome of evaluating a Policy.
type Decision int

const (
	Allow Decision = iota
	Unauthenticated
	Forbidden
)

type accessKind int

const (
	permitAll accessKind = iota
	denyAnonymous
	authenticated
	hasRole
)

// Rule grants access to requests matching Method and Pattern. An empty
// Method matches every method. Patterns are exact paths or end in "/**",
// which matches the prefix itself and anything below it.
type Rule struct {
	Method  string
	Pattern string
	kind    accessKind
	role    domain.Role
}

// PermitAll lets every request through, authenticated or not.
func PermitAll(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, kind: permitAll}
}

// DenyAnonymous rejects unauthenticated requests and passes authenticated
// ones on to the following rules.
func DenyAnonymous(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, kind: denyAnonymous}
}

// Authenticated allows any authenticated principal.
func Authenticated(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, kind: authenticated}
}

// HasRole allows principals holding role. ADMIN satisfies USER.
func HasRole(method, pattern string, role domain.Role) Rule {
	return Rule{Method: method, Pattern: pattern, kind: hasRole, role: role}
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

// Policy is an ordered rule list; the first matching rule decides.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultPolicy is the access policy of the animes API.
func DefaultPolicy() *Policy {
	return NewPolicy(
		PermitAll("", "/health"),
		PermitAll("", "/health/ready"),
		PermitAll("", "/metrics"),
		PermitAll("", "/swagger/**"),
		PermitAll("", "/login"),
		PermitAll("", "/logout"),
		PermitAll("", "/auth/token"),
		DenyAnonymous("", "/**"),
		HasRole(http.MethodPost, "/animes/**", domain.RoleAdmin),
		HasRole(http.MethodPut, "/animes/**", domain.RoleAdmin),
		HasRole(http.MethodGet, "/animes/**", domain.RoleUser),
		Authenticated("", "/**"),
	)
}

// Evaluate applies the rules to a request. Requests no rule matches are
// allowed for authenticated principals only.
func (p *Policy) Evaluate(method, path string, principal *domain.Principal) Decision {
	for _, r := range p.rules {
		if !r.matches(method, path) {
			continue
		}
		switch r.kind {
		case permitAll:
			return Allow
		case denyAnonymous:
			if principal == nil {
				return Unauthenticated
			}
		case authenticated:
			if principal == nil {
				return Unauthenticated
			}
			return Allow
		case hasRole:
			if principal == nil {
				return Unauthenticated
			}
			if principal.HasRole(r.role) {
				return Allow
			}
			return Forbidden
		}
	}
	if principal == nil {
		return Unauthenticated
	}
	return Allow
}

// Authorize enforces the policy after authentication has run.
func Authorize(policy *Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFrom(c)
			switch policy.Evaluate(c.Request().Method, c.Request().URL.Path, principal) {
			case Unauthenticated:
				metrics.AuthFailuresTotal.WithLabelValues("none", "unauthenticated").Inc()
				return Challenge(c, domain.ErrUnauthorized)
			case Forbidden:
				metrics.AuthFailuresTotal.WithLabelValues(principal.Method, "forbidden").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
