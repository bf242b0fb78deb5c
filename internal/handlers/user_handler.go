package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enscho/internal/models"
	"enscho/internal/services"
)

type UserHandler struct {
	userService  *services.UserService
	auditService *services.AuditService
}

func NewUserHandler(userService *services.UserService, auditService *services.AuditService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		auditService: auditService,
	}
}

// List shows all users (admin only)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	render(c, http.StatusOK, "admin/users", gin.H{"Title": "Pengguna", "Users": users})
}

func (h *UserHandler) CreatePage(c *gin.Context) {
	render(c, http.StatusOK, "admin/user_form", gin.H{
		"Title":  "Pengguna Baru",
		"Action": "/admin/users/create",
		"Target": &models.User{Role: models.RoleStudent, IsActive: true},
		"IsNew":  true,
	})
}

// Create creates a new user (admin only)
func (h *UserHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	in := userInput(c)
	in.IsActive = true
	user, err := h.userService.Create(c.Request.Context(), in)
	if err != nil {
		h.formError(c, "Pengguna Baru", "/admin/users/create", &models.User{}, in, true, err)
		return
	}

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionUserCreate, services.EntityUser, &user.ID, map[string]string{
		"email": user.Email,
		"role":  string(user.Role),
	}, c.ClientIP())
	redirect(c, "/admin/users")
}

func (h *UserHandler) EditPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	render(c, http.StatusOK, "admin/user_form", gin.H{
		"Title":  "Ubah Pengguna",
		"Action": "/admin/users/edit/" + c.Param("id"),
		"Target": user,
	})
}

// Update changes email, name, role and optionally the password (admin only)
func (h *UserHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	current, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	in := userInput(c)
	in.IsActive = current.IsActive
	if id == actor.ID() && in.Role != string(models.RoleAdmin) {
		c.String(http.StatusBadRequest, "Tidak dapat menurunkan peran akun sendiri")
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, in)
	if err != nil {
		h.formError(c, "Ubah Pengguna", "/admin/users/edit/"+c.Param("id"), &models.User{ID: id}, in, false, err)
		return
	}

	details := map[string]string{"role": string(user.Role)}
	if in.Password != "" {
		details["password"] = "changed"
	}
	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionUserUpdate, services.EntityUser, &id, details, c.ClientIP())
	redirect(c, "/admin/users")
}

// ToggleActive toggles user active status (admin only)
func (h *UserHandler) ToggleActive(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	// Prevent self-deactivation
	if id == actor.ID() {
		c.String(http.StatusBadRequest, "Tidak dapat menonaktifkan akun sendiri")
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	if err := h.userService.SetActive(c.Request.Context(), id, !user.IsActive); err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	action := services.ActionUserBlock
	if !user.IsActive {
		action = services.ActionUserUnblock
	}
	h.auditService.LogUser(c.Request.Context(), actor.ID(), action, services.EntityUser, &id, nil, c.ClientIP())
	redirect(c, "/admin/users")
}

func userInput(c *gin.Context) services.UserInput {
	return services.UserInput{
		Email:    c.PostForm("email"),
		Name:     c.PostForm("name"),
		Role:     c.PostForm("role"),
		Password: c.PostForm("password"),
	}
}

func (h *UserHandler) formError(c *gin.Context, title, action string, user *models.User, in services.UserInput, isNew bool, err error) {
	if !isUserError(err) && errorStatus(err) != http.StatusConflict {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	user.Email = in.Email
	user.Name = in.Name
	user.Role = models.Role(in.Role)
	user.IsActive = in.IsActive

	render(c, errorStatus(err), "admin/user_form", gin.H{
		"Title":  title,
		"Action": action,
		"Target": user,
		"IsNew":  isNew,
		"Error":  errorMessage(err),
	})
}
