package token

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/api"
	"trading_backend/internal/feature/auth/domain/entity"
)

// Context keys set by AuthRequired for downstream handlers.
const (
	ContextUserID = "userID"
	ContextUser   = "currentUser"
)

// unauthorizedMessage is the single externally visible 401 body. The
// internal failure kind (bad signature, expiry, unknown or inactive user)
// is only logged, never surfaced.
const unauthorizedMessage = "could not validate credentials"

// Verifier checks a raw bearer token and returns its claims.
// The interface is defined here, by the consumer, per Go convention.
type Verifier interface {
	Verify(tokenStr string) (*Claims, error)
}

// UserResolver loads the token subject from storage.
type UserResolver interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// AuthRequired returns a Gin middleware that extracts the bearer token,
// verifies it, resolves the subject to a user record, and rejects the
// request if the account is missing or deactivated. Verification order:
// signature, expiry, subject resolution.
func AuthRequired(verifier Verifier, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error(unauthorizedMessage))
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		claims, err := verifier.Verify(tokenStr)
		if err != nil {
			slog.Warn("token verification failed", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error(unauthorizedMessage))
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			slog.Warn("token subject not found", "error", err, "user_id", claims.UserID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error(unauthorizedMessage))
			return
		}
		if !user.IsActive {
			slog.Warn("token subject is deactivated", "user_id", user.ID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error(unauthorizedMessage))
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthRequired. It panics if the
// middleware did not run, which is a routing bug, not a runtime condition.
func CurrentUser(c *gin.Context) *entity.User {
	return c.MustGet(ContextUser).(*entity.User)
}

// CurrentUserID returns the id of the user resolved by AuthRequired.
func CurrentUserID(c *gin.Context) uint {
	return c.MustGet(ContextUserID).(uint)
}
