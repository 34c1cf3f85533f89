package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dutycal/src/auth"
)

type SessionMiddleware struct {
	sessions *auth.SessionStore
}

func NewSessionMiddleware(sessions *auth.SessionStore) *SessionMiddleware {
	return &SessionMiddleware{
		sessions: sessions,
	}
}

// LoadSession resolves the session cookie into the request context.
// Missing or expired sessions are not an error at this point.
func (m *SessionMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(auth.SessionCookieName)
		if err == nil && sessionID != "" {
			if session, err := m.sessions.GetSession(c.Request.Context(), sessionID); err == nil {
				c.Set("session", session)
			}
		}

		c.Next()
	}
}

// RequireCredentials rejects requests whose session holds no delegated
// credentials before the handler runs.
func (m *SessionMiddleware) RequireCredentials() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFromContext(c).Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization."})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SessionFromContext returns the session loaded by LoadSession, or nil.
func SessionFromContext(c *gin.Context) *auth.Session {
	v, exists := c.Get("session")
	if !exists {
		return nil
	}
	session, ok := v.(*auth.Session)
	if !ok {
		return nil
	}
	return session
}
