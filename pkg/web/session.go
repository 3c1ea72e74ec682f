package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dskvich/claim-analyzer/pkg/domain"
)

const sessionCookie = "claim_session"

type SessionRepository interface {
	Save(session domain.Session)
	GetByID(id string) (domain.Session, bool)
	Update(id string, fn func(*domain.Session) error) (domain.Session, error)
	Delete(id string)
}

// session returns the caller's session, starting a fresh one when the cookie is
// missing or points at an expired session. The cookie is re-issued on every request
// so its lifetime follows the idle TTL.
func (p *pages) session(c echo.Context) domain.Session {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		if s, ok := p.sessions.GetByID(cookie.Value); ok {
			p.setSessionCookie(c, s.ID)
			return s
		}
	}

	s := domain.NewSession(uuid.NewString(), p.defaultModel)
	p.sessions.Save(*s)
	p.setSessionCookie(c, s.ID)

	return *s
}

func (p *pages) setSessionCookie(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(p.sessionTTL / time.Second),
	})
}
