package http

import (
	"errors"
	"net/http"
	"strings"

	"freight/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderCompanyID = "X-Company-ID"

	actorContextKey = "freight.actor"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves the caller of a request.
type Authenticator interface {
	Authenticate(r *http.Request) (kernel.Actor, error)
}

// HeaderAuthenticator trusts identity headers set by the gateway in front of
// the service.
type HeaderAuthenticator struct{}

func NewHeaderAuthenticator() HeaderAuthenticator {
	return HeaderAuthenticator{}
}

func (HeaderAuthenticator) Authenticate(r *http.Request) (kernel.Actor, error) {
	rawID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	rawRole := strings.TrimSpace(r.Header.Get(HeaderUserRole))
	if rawID == "" || rawRole == "" {
		return kernel.Actor{}, ErrUnauthenticated
	}

	userID, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return kernel.Actor{}, errors.Join(ErrUnauthenticated, err)
	}
	role, err := kernel.ParseRole(rawRole)
	if err != nil {
		return kernel.Actor{}, errors.Join(ErrUnauthenticated, err)
	}

	var companyID *kernel.UUID
	if rawCompany := strings.TrimSpace(r.Header.Get(HeaderCompanyID)); rawCompany != "" {
		id, err := kernel.UUIDFromString(rawCompany)
		if err != nil {
			return kernel.Actor{}, errors.Join(ErrUnauthenticated, err)
		}
		companyID = &id
	}

	actor, err := kernel.NewActor(userID, role, companyID)
	if err != nil {
		return kernel.Actor{}, errors.Join(ErrUnauthenticated, err)
	}
	return actor, nil
}

// RequireActor rejects requests without a resolvable identity and stores the
// actor for the handlers.
func RequireActor(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := auth.Authenticate(c.Request())
			if err != nil {
				return fail(c, err)
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, ErrUnauthenticated
	}
	return actor, nil
}
