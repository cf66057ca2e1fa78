package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"mindease-chat/internal/pkg/jwtutil"
	"mindease-chat/internal/session"
)

const (
	ContextSessionKey   = "session"
	ContextSessionIDKey = "session_id"
)

// AuthSession resolves the bearer token to the Redis-backed session and puts
// the session value on the context. It never aborts: requests without a live
// session carry the logged-out default, and gated handlers decide what to say.
func AuthSession(secret string, sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextSessionKey, session.LoggedOut())
		c.Set(ContextSessionIDKey, "")

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			c.Next()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			c.Next()
			return
		}

		sess, ok, err := sessions.Get(c.Request.Context(), claims.ID)
		if err != nil || !ok {
			// token was valid once but the session is gone (logout or TTL)
			c.Next()
			return
		}

		c.Set(ContextSessionKey, sess)
		c.Set(ContextSessionIDKey, claims.ID)
		c.Next()
	}
}

// SessionFromContext returns the resolved session, defaulting to logged out.
func SessionFromContext(c *gin.Context) session.Session {
	if value, exists := c.Get(ContextSessionKey); exists {
		if sess, ok := value.(session.Session); ok {
			return sess
		}
	}
	return session.LoggedOut()
}

func SessionIDFromContext(c *gin.Context) string {
	if value, exists := c.Get(ContextSessionIDKey); exists {
		if sid, ok := value.(string); ok {
			return sid
		}
	}
	return ""
}
