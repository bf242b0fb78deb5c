package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"enscho/internal/access"
	"enscho/internal/models"
)

const (
	SessionMaxAge         = 24 * 60 * 60      // 1 day
	SessionRememberMaxAge = 30 * 24 * 60 * 60 // 30 days
)

// Sessions writes and clears the cookie-encoded session.
type Sessions struct {
	codec       access.Codec
	forceSecure bool
}

func NewSessions(codec access.Codec, forceSecure bool) *Sessions {
	return &Sessions{codec: codec, forceSecure: forceSecure}
}

func (s *Sessions) Codec() access.Codec {
	return s.codec
}

// Set issues the session cookie for a freshly authenticated user.
func (s *Sessions) Set(c *gin.Context, userID int64, role models.Role, rememberMe bool) {
	maxAge := SessionMaxAge
	if rememberMe {
		maxAge = SessionRememberMaxAge
	}
	token := access.SessionToken{UserID: strconv.FormatInt(userID, 10), Role: role}
	s.write(c, access.SessionCookie, s.codec.Encode(token), maxAge)
}

// Clear deletes both the session and the legacy admin_session cookie.
func (s *Sessions) Clear(c *gin.Context) {
	s.write(c, access.SessionCookie, "", -1)
	s.write(c, access.AdminSessionCookie, "", -1)
}

// write sets the cookie value verbatim. gin's SetCookie would query-escape
// it and turn "42:TEACHER" into "42%3ATEACHER".
func (s *Sessions) write(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   s.secure(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) secure(c *gin.Context) bool {
	return s.forceSecure || c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}
