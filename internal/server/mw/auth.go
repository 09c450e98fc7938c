package mw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/gin-gonic/gin"
)

const (
	HeaderAuthorization = "Authorization"
	BearerPrefix        = "Bearer "

	// CtxUserID is the gin context key holding the authenticated user id.
	CtxUserID = "user_id"
)

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth rejects requests without a valid token and stores the caller's user id in the context.
// Both "Bearer <token>" and a bare token are accepted.
func RequireAuth(verifier TokenVerifier, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderAuthorization))
		token := strings.TrimSpace(strings.TrimPrefix(raw, BearerPrefix))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization token is missing"})
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			log.DebugContext(c.Request.Context(), "Rejected token", sl.Err(err), slog.String("request_id", RequestID(c)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(CtxUserID, userID)
		c.Next()
	}
}

// UserID returns the id stored by RequireAuth, or an empty string outside authenticated routes.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
