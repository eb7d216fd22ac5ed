package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/animeshelf/animes-api/internal/api/metrics"
	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/core/ports"
)

// Realm is advertised in the WWW-Authenticate challenge.
const Realm = "animes"

// ErrNoCredentials tells the chain that an authenticator found nothing to
// check and the next one should try.
var ErrNoCredentials = errors.New("no credentials")

// Authenticator resolves a principal from one kind of credential.
type Authenticator interface {
	Name() string
	Authenticate(c echo.Context) (*domain.Principal, error)
}

// BasicAuthenticator checks HTTP Basic credentials against the user store.
type BasicAuthenticator struct {
	auth ports.AuthService
}

func NewBasicAuthenticator(auth ports.AuthService) *BasicAuthenticator {
	return &BasicAuthenticator{auth: auth}
}

func (a *BasicAuthenticator) Name() string { return "basic" }

func (a *BasicAuthenticator) Authenticate(c echo.Context) (*domain.Principal, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !hasScheme(header, "basic") {
		return nil, ErrNoCredentials
	}
	username, password, ok := c.Request().BasicAuth()
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := a.auth.Authenticate(c.Request().Context(), username, password)
	if err != nil {
		return nil, err
	}
	return &domain.Principal{Username: user.Username, Roles: user.Roles, Method: a.Name()}, nil
}

// BearerAuthenticator validates bearer tokens issued by POST /auth/token.
type BearerAuthenticator struct {
	auth ports.AuthService
}

func NewBearerAuthenticator(auth ports.AuthService) *BearerAuthenticator {
	return &BearerAuthenticator{auth: auth}
}

func (a *BearerAuthenticator) Name() string { return "bearer" }

func (a *BearerAuthenticator) Authenticate(c echo.Context) (*domain.Principal, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !hasScheme(header, "bearer") {
		return nil, ErrNoCredentials
	}
	token := strings.TrimSpace(header[len("bearer"):])
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return a.auth.ParseToken(token)
}

// SessionAuthenticator resolves the SESSION cookie. Unknown or expired
// sessions count as anonymous rather than as bad credentials.
type SessionAuthenticator struct {
	sessions   ports.SessionService
	cookieName string
}

func NewSessionAuthenticator(sessions ports.SessionService, cookieName string) *SessionAuthenticator {
	return &SessionAuthenticator{sessions: sessions, cookieName: cookieName}
}

func (a *SessionAuthenticator) Name() string { return "session" }

func (a *SessionAuthenticator) Authenticate(c echo.Context) (*domain.Principal, error) {
	cookie, err := c.Cookie(a.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoCredentials
	}
	session, err := a.sessions.Validate(c.Request().Context(), cookie.Value)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrSessionExpired):
		return nil, ErrNoCredentials
	case err != nil:
		return nil, err
	}
	return session.Principal(), nil
}

// Authenticate runs the authenticators in order. The first one that finds
// credentials decides: a principal is attached on success, bad credentials
// end the request with 401. Requests without credentials continue
// anonymously and are left to the authorization policy.
func Authenticate(log zerolog.Logger, authenticators ...Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, a := range authenticators {
				p, err := a.Authenticate(c)
				if errors.Is(err, ErrNoCredentials) {
					continue
				}
				if err != nil {
					if errors.Is(err, domain.ErrInvalidCredentials) {
						metrics.AuthFailuresTotal.WithLabelValues(a.Name(), "invalid_credentials").Inc()
						log.Debug().Str("method", a.Name()).Str("path", c.Request().URL.Path).Msg("authentication failed")
						return Challenge(c, domain.ErrInvalidCredentials)
					}
					return err
				}
				SetPrincipal(c, p)
				break
			}
			return next(c)
		}
	}
}

// Challenge adds the Basic challenge header and returns err for the central
// error handler to render as 401.
func Challenge(c echo.Context, err error) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="`+Realm+`"`)
	return err
}

func hasScheme(header, scheme string) bool {
	return len(header) > len(scheme) &&
		strings.EqualFold(header[:len(scheme)], scheme) &&
		header[len(scheme)] == ' '
}
