package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"

	"enscho/internal/metrics"
)

// LoginRateLimit limits login form submissions per client IP. A limit of 0
// disables it.
func LoginRateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limited := httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.Logins.WithLabelValues("any", "rate_limited").Inc()
			http.Error(w, "Terlalu banyak percobaan login, coba lagi nanti.", http.StatusTooManyRequests)
		}),
	)
	return wrapHTTP(limited)
}

// wrapHTTP adapts net/http middleware to gin. The gin chain continues only
// when the wrapped middleware called its next handler.
func wrapHTTP(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
		})
		mw(next).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}
}
