package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"enscho/internal/metrics"
)

const (
	CSRFTokenKey    = "csrf_token"
	CSRFCookieKey   = "_csrf"
	CSRFHeaderKey   = "X-CSRF-Token"
	CSRFFormKey     = "_csrf"
	CSRFTokenLength = 32
)

// CSRF issues a double-submit token cookie and checks it on every
// state-changing request, including the public PPDB form. Rendered forms
// carry the token in the _csrf field; HTMX sends it as X-CSRF-Token.
func CSRF(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := csrfCookieToken(c, secure)
		c.Set(CSRFTokenKey, token)

		if isSafeMethod(c.Request.Method) || validateCSRFToken(token, submittedCSRFToken(c)) {
			c.Next()
			return
		}
		rejectCSRF(c)
	}
}

// csrfCookieToken returns the token from the _csrf cookie, issuing a new
// cookie when it is missing or not a token this middleware wrote.
func csrfCookieToken(c *gin.Context, secure bool) string {
	if token, err := c.Cookie(CSRFCookieKey); err == nil && len(token) == CSRFTokenLength*2 {
		if _, err := hex.DecodeString(token); err == nil {
			return token
		}
	}
	token := generateCSRFToken()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CSRFCookieKey, token, SessionMaxAge, "/", "", secure || c.Request.TLS != nil, true)
	return token
}

func submittedCSRFToken(c *gin.Context) string {
	if token := c.PostForm(CSRFFormKey); token != "" {
		return token
	}
	return c.GetHeader(CSRFHeaderKey)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func rejectCSRF(c *gin.Context) {
	metrics.CSRFRejections.Inc()
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid CSRF token"})
		return
	}
	c.String(http.StatusForbidden, "Sesi formulir kedaluwarsa. Muat ulang halaman dan coba lagi.")
	c.Abort()
}

func GetCSRFToken(c *gin.Context) string {
	if token, ok := c.Get(CSRFTokenKey); ok {
		return token.(string)
	}
	return ""
}

func generateCSRFToken() string {
	b := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func validateCSRFToken(expected, actual string) bool {
	return len(expected) == len(actual) &&
		subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
