package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"enscho/internal/access"
	"enscho/internal/models"
)

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSessions_Set(t *testing.T) {
	tests := []struct {
		name       string
		remember   bool
		forwarded  string
		force      bool
		wantMaxAge int
		wantSecure bool
	}{
		{"one day", false, "", false, SessionMaxAge, false},
		{"remember me", true, "", false, SessionRememberMaxAge, false},
		{"behind https proxy", false, "https", false, SessionMaxAge, true},
		{"production", false, "", true, SessionMaxAge, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := NewSessions(access.PlainCodec{}, tt.force)
			router := gin.New()
			router.POST("/login", func(c *gin.Context) {
				sessions.Set(c, 42, models.RoleTeacher, tt.remember)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/login", nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}
			router.ServeHTTP(w, req)

			cookie := findCookie(w.Result().Cookies(), access.SessionCookie)
			if cookie == nil {
				t.Fatal("session cookie not set")
			}
			if raw := w.Header().Get("Set-Cookie"); !strings.HasPrefix(raw, access.SessionCookie+"=42:TEACHER;") {
				t.Errorf("Set-Cookie = %q, want the value unescaped", raw)
			}
			if cookie.Value != "42:TEACHER" {
				t.Errorf("value = %q, want %q", cookie.Value, "42:TEACHER")
			}
			if cookie.MaxAge != tt.wantMaxAge {
				t.Errorf("MaxAge = %d, want %d", cookie.MaxAge, tt.wantMaxAge)
			}
			if !cookie.HttpOnly {
				t.Error("cookie should be HttpOnly")
			}
			if cookie.Secure != tt.wantSecure {
				t.Errorf("Secure = %v, want %v", cookie.Secure, tt.wantSecure)
			}
			if cookie.SameSite != http.SameSiteLaxMode {
				t.Errorf("SameSite = %v, want Lax", cookie.SameSite)
			}
			if cookie.Path != "/" {
				t.Errorf("Path = %q, want /", cookie.Path)
			}
		})
	}
}

func TestSessions_Clear(t *testing.T) {
	sessions := NewSessions(access.PlainCodec{}, false)
	router := gin.New()
	router.POST("/logout", func(c *gin.Context) {
		sessions.Clear(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", nil)
	router.ServeHTTP(w, req)

	for _, name := range []string{access.SessionCookie, access.AdminSessionCookie} {
		cookie := findCookie(w.Result().Cookies(), name)
		if cookie == nil {
			t.Errorf("%s not cleared", name)
			continue
		}
		if cookie.MaxAge >= 0 || cookie.Value != "" {
			t.Errorf("%s = %+v, want deletion", name, cookie)
		}
	}
}

func TestSessions_RoundTripThroughGate(t *testing.T) {
	codec := access.NewSignedCodec("s3cret")
	sessions := NewSessions(codec, false)

	router := gin.New()
	router.Use(Access(access.DefaultPolicy(), codec))
	router.POST("/login/siswa", func(c *gin.Context) {
		sessions.Set(c, 9, models.RoleStudent, false)
		c.Status(http.StatusOK)
	})
	router.GET("/siswa", func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/login/siswa", nil))
	cookie := findCookie(w.Result().Cookies(), access.SessionCookie)
	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	if !strings.HasPrefix(cookie.Value, "9:STUDENT:") || strings.Count(cookie.Value, ":") != 2 {
		t.Errorf("signed cookie value = %q, want userId:role:mac", cookie.Value)
	}
	if cookie.Value != codec.Encode(access.SessionToken{UserID: "9", Role: models.RoleStudent}) {
		t.Errorf("signed cookie value = %q, not the codec output", cookie.Value)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/siswa", nil)
	req.AddCookie(cookie)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "dashboard" {
		t.Errorf("GET /siswa = %d %q", w.Code, w.Body.String())
	}
}
