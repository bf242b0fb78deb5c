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

func gateRouter(codec access.Codec) *gin.Engine {
	router := gin.New()
	router.Use(Access(access.DefaultPolicy(), codec))
	router.NoRoute(func(c *gin.Context) {
		actor, ok := GetActor(c)
		if ok {
			c.String(http.StatusOK, "ok "+actor.UserID+" "+string(actor.Role))
			return
		}
		c.String(http.StatusOK, "ok anonymous")
	})
	return router
}

func TestAccess(t *testing.T) {
	router := gateRouter(access.PlainCodec{})

	tests := []struct {
		name         string
		path         string
		session      string
		adminSession string
		wantStatus   int
		wantLocation string
	}{
		{"public home", "/", "", "", http.StatusOK, ""},
		{"public news", "/berita/some-slug", "garbage", "", http.StatusOK, ""},
		{"admin no cookies", "/admin/posts", "", "", http.StatusFound, "/admin/login"},
		{"admin root no cookies", "/admin", "", "", http.StatusFound, "/admin/login"},
		{"admin garbage cookie", "/admin/posts", "garbage", "", http.StatusFound, "/admin/login"},
		{"admin login page", "/admin/login", "", "", http.StatusOK, ""},
		{"admin login while admin", "/admin/login", "1:ADMIN", "", http.StatusFound, "/admin"},
		{"admin_session alone", "/admin/users", "", "1", http.StatusOK, ""},
		{"student gallery create", "/admin/gallery/create", "7:STUDENT", "", http.StatusOK, ""},
		{"student posts create", "/admin/posts/create", "7:STUDENT", "", http.StatusFound, "/siswa"},
		{"teacher jurusan", "/admin/jurusan", "3:TEACHER", "", http.StatusOK, ""},
		{"teacher users", "/admin/users", "3:TEACHER", "", http.StatusFound, "/guru"},
		{"alumni gallery", "/admin/gallery", "5:ALUMNI", "", http.StatusFound, "/alumni"},
		{"unknown role admin", "/admin/posts", "5:JANITOR", "", http.StatusFound, "/"},
		{"portal no session", "/guru", "", "", http.StatusFound, "/login/guru"},
		{"portal own role", "/siswa/profile", "7:STUDENT", "", http.StatusOK, ""},
		{"portal other role", "/alumni", "7:STUDENT", "", http.StatusFound, "/"},
		{"portal admin", "/alumni", "1:ADMIN", "", http.StatusOK, ""},
		{"dot segments", "/berita/../admin/users", "", "", http.StatusFound, "/admin/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/", nil)
			req.URL.Path = tt.path
			if tt.session != "" {
				req.AddCookie(&http.Cookie{Name: access.SessionCookie, Value: tt.session})
			}
			if tt.adminSession != "" {
				req.AddCookie(&http.Cookie{Name: access.AdminSessionCookie, Value: tt.adminSession})
			}

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("GET %s status = %d, want %d", tt.path, w.Code, tt.wantStatus)
			}
			if loc := w.Header().Get("Location"); loc != tt.wantLocation {
				t.Errorf("GET %s Location = %q, want %q", tt.path, loc, tt.wantLocation)
			}
			if tt.wantStatus == http.StatusFound && strings.HasPrefix(w.Body.String(), "ok") {
				t.Errorf("GET %s reached the handler after a redirect decision", tt.path)
			}
		})
	}
}

func TestAccess_StoresActor(t *testing.T) {
	router := gateRouter(access.PlainCodec{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/gallery", nil)
	req.AddCookie(&http.Cookie{Name: access.SessionCookie, Value: "7:STUDENT"})
	router.ServeHTTP(w, req)

	if got := w.Body.String(); got != "ok 7 STUDENT" {
		t.Errorf("body = %q, want %q", got, "ok 7 STUDENT")
	}
}

func TestAccess_SignedCodecRejectsForgedRole(t *testing.T) {
	codec := access.NewSignedCodec("secret")
	router := gateRouter(codec)

	forged := "7:ADMIN"
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: access.SessionCookie, Value: forged})
	router.ServeHTTP(w, req)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
		t.Errorf("forged cookie: status = %d, Location = %q", w.Code, w.Header().Get("Location"))
	}

	genuine := codec.Encode(access.SessionToken{UserID: "1", Role: models.RoleAdmin})
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: access.SessionCookie, Value: genuine})
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("signed admin cookie: status = %d, want 200", w.Code)
	}
}
