package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"enscho/internal/access"
	"enscho/internal/metrics"
	"enscho/internal/models"
)

const (
	IdentityContextKey = "identity"
	UserContextKey     = "user"
)

// Access runs the path-level policy once per request, before any handler.
// Denied requests are redirected with 302 and never reach page logic.
func Access(policy *access.Policy, codec access.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ReadIdentity(c, codec)
		c.Set(IdentityContextKey, id)

		decision := policy.Evaluate(c.Request.URL.Path, id)
		metrics.AccessDecisions.WithLabelValues(decision.Outcome.String(), decision.Reason).Inc()

		if !decision.Allowed() {
			c.Redirect(http.StatusFound, decision.Location)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ReadIdentity decodes the session cookies. Missing or malformed cookies
// yield an anonymous identity.
func ReadIdentity(c *gin.Context, codec access.Codec) access.Identity {
	session, _ := c.Cookie(access.SessionCookie)
	adminSession, _ := c.Cookie(access.AdminSessionCookie)
	return access.IdentityFromCookies(codec, session, adminSession)
}

func GetIdentity(c *gin.Context) access.Identity {
	if id, exists := c.Get(IdentityContextKey); exists {
		return id.(access.Identity)
	}
	return access.Identity{}
}

// GetActor returns who a mutation is performed for, if anyone.
func GetActor(c *gin.Context) (access.Actor, bool) {
	return GetIdentity(c).Actor()
}

// UserLoader is the lookup CurrentUser needs; *repository.UserRepository
// satisfies it.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// CurrentUser loads the signed-in user for templates. It never blocks a
// request: the policy has already decided, this is display only.
func CurrentUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := GetActor(c); ok && actor.ID() > 0 {
			if user, err := users.GetByID(c.Request.Context(), actor.ID()); err == nil && user.IsActive {
				c.Set(UserContextKey, user)
			}
		}
		c.Next()
	}
}

func GetUser(c *gin.Context) *models.User {
	if user, exists := c.Get(UserContextKey); exists {
		return user.(*models.User)
	}
	return nil
}
