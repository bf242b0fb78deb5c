package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/services"
)

// DashboardHandler serves the admin landing page at /admin.
type DashboardHandler struct {
	users         *services.UserService
	posts         *services.PostService
	registrations *services.RegistrationService
	audit         *services.AuditService
}

func NewDashboardHandler(users *services.UserService, posts *services.PostService,
	registrations *services.RegistrationService, audit *services.AuditService) *DashboardHandler {
	return &DashboardHandler{users: users, posts: posts, registrations: registrations, audit: audit}
}

func (h *DashboardHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()

	roles, err := h.users.CountByRole(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	ppdb, err := h.registrations.Counts(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	latest, published, err := h.posts.List(ctx, repository.PostFilter{PublishedOnly: true, Limit: 5})
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	activity, _, err := h.audit.List(ctx, 1, 10)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}

	render(c, http.StatusOK, "admin/dashboard", gin.H{
		"Title":     "Dashboard",
		"Roles":     roles,
		"PPDB":      ppdb,
		"Pending":   ppdb[models.RegistrationPending],
		"Posts":     latest,
		"Published": published,
		"Activity":  activity,
	})
}
