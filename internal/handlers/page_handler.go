package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enscho/internal/models"
	"enscho/internal/services"
)

type PageHandler struct {
	pageService  *services.PageService
	auditService *services.AuditService
}

func NewPageHandler(pageService *services.PageService, auditService *services.AuditService) *PageHandler {
	return &PageHandler{pageService: pageService, auditService: auditService}
}

func (h *PageHandler) List(c *gin.Context) {
	pages, err := h.pageService.List(c.Request.Context(), false)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	render(c, http.StatusOK, "admin/pages", gin.H{"Title": "Halaman", "Pages": pages})
}

func (h *PageHandler) CreatePage(c *gin.Context) {
	render(c, http.StatusOK, "admin/page_form", gin.H{
		"Title":  "Halaman Baru",
		"Action": "/admin/pages/create",
		"Page":   &models.Page{IsPublished: true},
	})
}

func (h *PageHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	in := pageInput(c)
	page, err := h.pageService.Create(c.Request.Context(), in)
	if err != nil {
		h.formError(c, "Halaman Baru", "/admin/pages/create", &models.Page{}, in, err)
		return
	}

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPageCreate, services.EntityPage, &page.ID,
		map[string]string{"slug": page.Slug}, c.ClientIP())
	redirect(c, "/admin/pages")
}

func (h *PageHandler) EditPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	page, err := h.pageService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	render(c, http.StatusOK, "admin/page_form", gin.H{
		"Title":  "Ubah Halaman",
		"Action": "/admin/pages/edit/" + c.Param("id"),
		"Page":   page,
	})
}

func (h *PageHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	in := pageInput(c)
	if _, err := h.pageService.Update(c.Request.Context(), id, in); err != nil {
		h.formError(c, "Ubah Halaman", "/admin/pages/edit/"+c.Param("id"), &models.Page{ID: id}, in, err)
		return
	}

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPageUpdate, services.EntityPage, &id, nil, c.ClientIP())
	redirect(c, "/admin/pages")
}

func (h *PageHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.pageService.Delete(c.Request.Context(), id); err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPageDelete, services.EntityPage, &id, nil, c.ClientIP())
	redirect(c, "/admin/pages")
}

func pageInput(c *gin.Context) services.PageInput {
	return services.PageInput{
		Title:       c.PostForm("title"),
		Slug:        c.PostForm("slug"),
		Content:     c.PostForm("content"),
		IsPublished: c.PostForm("is_published") == "on",
	}
}

func (h *PageHandler) formError(c *gin.Context, title, action string, page *models.Page, in services.PageInput, err error) {
	if !isUserError(err) {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	page.Title = in.Title
	page.Slug = in.Slug
	page.Content = in.Content
	page.IsPublished = in.IsPublished

	render(c, http.StatusBadRequest, "admin/page_form", gin.H{
		"Title":  title,
		"Action": action,
		"Page":   page,
		"Error":  err.Error(),
	})
}
