package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func csrfRouter() *gin.Engine {
	router := gin.New()
	router.Use(CSRF(false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})
	router.POST("/form", func(c *gin.Context) {
		c.String(http.StatusOK, "saved")
	})
	return router
}

func TestCSRF(t *testing.T) {
	router := csrfRouter()

	// GET issues the token
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/form", nil))
	cookie := findCookie(w.Result().Cookies(), CSRFCookieKey)
	if cookie == nil {
		t.Fatal("csrf cookie not set")
	}
	token := w.Body.String()
	if token != cookie.Value || len(token) != CSRFTokenLength*2 {
		t.Fatalf("token = %q, cookie = %q", token, cookie.Value)
	}

	tests := []struct {
		name       string
		formToken  string
		header     string
		wantStatus int
	}{
		{"form field", token, "", http.StatusOK},
		{"header", "", token, http.StatusOK},
		{"missing", "", "", http.StatusForbidden},
		{"wrong", strings.Repeat("0", CSRFTokenLength*2), "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			if tt.formToken != "" {
				form.Set(CSRFFormKey, tt.formToken)
			}
			req := httptest.NewRequest("POST", "/form", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.header != "" {
				req.Header.Set(CSRFHeaderKey, tt.header)
			}
			req.AddCookie(cookie)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestValidateCSRFToken(t *testing.T) {
	if !validateCSRFToken("abc", "abc") {
		t.Error("equal tokens should validate")
	}
	if validateCSRFToken("abc", "abd") || validateCSRFToken("abc", "ab") || validateCSRFToken("abc", "") {
		t.Error("different tokens should not validate")
	}
}

func TestCSRF_ReplacesForeignCookie(t *testing.T) {
	router := csrfRouter()

	foreign := strings.Repeat("z", CSRFTokenLength*2)
	req := httptest.NewRequest("GET", "/form", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieKey, Value: foreign})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	cookie := findCookie(w.Result().Cookies(), CSRFCookieKey)
	if cookie == nil || cookie.Value == foreign {
		t.Fatalf("non-hex cookie was kept: %+v", cookie)
	}
	if w.Body.String() != cookie.Value {
		t.Errorf("context token %q differs from issued cookie %q", w.Body.String(), cookie.Value)
	}
}

func TestCSRF_JSONRejection(t *testing.T) {
	router := csrfRouter()

	req := httptest.NewRequest("POST", "/form", nil)
	req.Header.Set("Accept", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"invalid CSRF token"`) {
		t.Errorf("body = %q", w.Body.String())
	}
}
