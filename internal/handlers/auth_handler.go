package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"enscho/internal/metrics"
	"enscho/internal/middleware"
	"enscho/internal/models"
	"enscho/internal/services"
)

type AuthHandler struct {
	authService  *services.AuthService
	auditService *services.AuditService
	sessions     *middleware.Sessions
}

func NewAuthHandler(authService *services.AuthService, auditService *services.AuditService, sessions *middleware.Sessions) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		auditService: auditService,
		sessions:     sessions,
	}
}

func (h *AuthHandler) AdminLoginPage(c *gin.Context) {
	render(c, http.StatusOK, "auth/login", gin.H{
		"Title":  "Login Dashboard",
		"Action": "/admin/login",
	})
}

// AdminLogin accepts every role; the dashboard allow-lists decide what a
// non-admin may open afterwards.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	user, err := h.authService.Login(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		h.loginFailed(c, "admin", err, gin.H{
			"Title":  "Login Dashboard",
			"Action": "/admin/login",
		})
		return
	}
	h.loginSucceeded(c, "admin", user)
}

func (h *AuthHandler) PortalLoginPage(c *gin.Context) {
	role, ok := models.RoleForPortal(c.Param("portal"))
	if !ok {
		c.String(http.StatusNotFound, "Halaman tidak ditemukan")
		return
	}
	render(c, http.StatusOK, "auth/login", portalLoginData(role))
}

func (h *AuthHandler) PortalLogin(c *gin.Context) {
	portal := c.Param("portal")
	role, ok := models.RoleForPortal(portal)
	if !ok {
		c.String(http.StatusNotFound, "Halaman tidak ditemukan")
		return
	}

	user, err := h.authService.LoginPortal(c.Request.Context(), portal, c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		h.loginFailed(c, portal, err, portalLoginData(role))
		return
	}
	h.loginSucceeded(c, portal, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if actor, ok := middleware.GetActor(c); ok {
		h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionLogout, services.EntityUser, nil, nil, c.ClientIP())
	}
	h.sessions.Clear(c)
	redirect(c, "/")
}

func (h *AuthHandler) loginSucceeded(c *gin.Context, form string, user *models.User) {
	h.sessions.Set(c, user.ID, user.Role, c.PostForm("remember") == "on")
	metrics.Logins.WithLabelValues(form, "success").Inc()
	h.auditService.LogUser(c.Request.Context(), user.ID, services.ActionLogin, services.EntityUser, &user.ID,
		map[string]string{"form": form}, c.ClientIP())
	redirect(c, user.Role.Home())
}

func (h *AuthHandler) loginFailed(c *gin.Context, form string, err error, data gin.H) {
	email := c.PostForm("email")
	status := http.StatusUnauthorized
	message := "Email atau password salah"

	switch {
	case errors.Is(err, services.ErrUserNotActive):
		message = "Akun Anda dinonaktifkan. Hubungi admin sekolah."
	case errors.Is(err, services.ErrWrongPortal):
		message = "Akun ini tidak terdaftar untuk portal ini"
	case errors.Is(err, services.ErrInvalidCredentials):
	default:
		status = http.StatusInternalServerError
		message = errorMessage(err)
	}

	metrics.Logins.WithLabelValues(form, "failure").Inc()
	h.auditService.LogAnonymous(c.Request.Context(), services.ActionLoginFailed, services.EntityUser,
		map[string]string{"email": email, "form": form}, c.ClientIP())

	data["Error"] = message
	data["Email"] = email
	render(c, status, "auth/login", data)
}

func portalLoginData(role models.Role) gin.H {
	return gin.H{
		"Title":  "Login " + role.Label(),
		"Action": "/login/" + role.Portal(),
		"Portal": role.Portal(),
	}
}
