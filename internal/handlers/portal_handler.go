package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"enscho/internal/middleware"
	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/services"
)

// PortalHandler serves the /guru, /siswa and /alumni areas. Every handler is
// built per role so templates know which portal they belong to.
type PortalHandler struct {
	users   *services.UserService
	auth    *services.AuthService
	posts   *services.PostService
	gallery *services.GalleryService
	uploads *services.UploadService
	audit   *services.AuditService
}

func NewPortalHandler(users *services.UserService, auth *services.AuthService, posts *services.PostService,
	gallery *services.GalleryService, uploads *services.UploadService, audit *services.AuditService) *PortalHandler {
	return &PortalHandler{
		users:   users,
		auth:    auth,
		posts:   posts,
		gallery: gallery,
		uploads: uploads,
		audit:   audit,
	}
}

func (h *PortalHandler) Dashboard(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := requireActor(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		posts, postTotal, err := h.posts.ListFor(ctx, actor, repository.PostFilter{Limit: 5})
		if err != nil {
			c.String(errorStatus(err), errorMessage(err))
			return
		}
		photos, photoTotal, err := h.gallery.ListFor(ctx, actor, 1, 8)
		if err != nil {
			c.String(errorStatus(err), errorMessage(err))
			return
		}

		render(c, http.StatusOK, "portal/dashboard", gin.H{
			"Title":      "Portal " + role.Label(),
			"Portal":     role,
			"Posts":      posts,
			"PostTotal":  postTotal,
			"Photos":     photos,
			"PhotoTotal": photoTotal,
		})
	}
}

func (h *PortalHandler) Profile(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.renderProfile(c, role, http.StatusOK, gin.H{"Saved": c.Query("saved")})
	}
}

func (h *PortalHandler) UpdateProfile(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.GetUser(c)
		if user == nil {
			c.String(http.StatusForbidden, "Silakan login terlebih dahulu")
			return
		}

		image, err := optionalImage(c, h.uploads, "image")
		if err == nil {
			old := user.Image
			_, err = h.users.UpdateProfile(c.Request.Context(), user.ID, c.PostForm("name"), image)
			if err == nil {
				if image != "" && old != image {
					h.uploads.Remove(old)
				}
				h.audit.LogUser(c.Request.Context(), user.ID, services.ActionUserUpdate, services.EntityUser, &user.ID,
					map[string]string{"profile": "updated"}, c.ClientIP())
				redirect(c, "/"+role.Portal()+"/profile?saved=profile")
				return
			}
		}

		h.uploads.Remove(image)
		if !isUserError(err) {
			c.String(errorStatus(err), errorMessage(err))
			return
		}
		h.renderProfile(c, role, http.StatusBadRequest, gin.H{"ProfileError": err.Error()})
	}
}

func (h *PortalHandler) ChangePassword(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.GetUser(c)
		if user == nil {
			c.String(http.StatusForbidden, "Silakan login terlebih dahulu")
			return
		}

		next := c.PostForm("new_password")
		if next != c.PostForm("confirm_password") {
			h.renderProfile(c, role, http.StatusBadRequest, gin.H{"PasswordError": "Konfirmasi password tidak sama"})
			return
		}

		err := h.auth.ChangePassword(c.Request.Context(), user.ID, c.PostForm("current_password"), next)
		if err != nil {
			if !isUserError(err) {
				c.String(errorStatus(err), errorMessage(err))
				return
			}
			message := err.Error()
			if errors.Is(err, services.ErrWrongPassword) {
				message = "Password lama salah"
			}
			h.renderProfile(c, role, http.StatusBadRequest, gin.H{"PasswordError": message})
			return
		}

		h.audit.LogUser(c.Request.Context(), user.ID, services.ActionPasswordChange, services.EntityUser, &user.ID, nil, c.ClientIP())
		redirect(c, "/"+role.Portal()+"/profile?saved=password")
	}
}

func (h *PortalHandler) renderProfile(c *gin.Context, role models.Role, status int, data gin.H) {
	data["Title"] = "Profil"
	data["Portal"] = role
	if _, ok := data["Saved"]; !ok {
		data["Saved"] = ""
	}
	render(c, status, "portal/profile", data)
}
