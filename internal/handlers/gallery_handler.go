package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enscho/internal/services"
)

type GalleryHandler struct {
	galleryService *services.GalleryService
	auditService   *services.AuditService
	perPage        int
}

func NewGalleryHandler(galleryService *services.GalleryService, auditService *services.AuditService, perPage int) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService, auditService: auditService, perPage: perPage}
}

// List shows every photo to admins and only their own to other roles.
func (h *GalleryHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	items, total, err := h.galleryService.ListFor(c.Request.Context(), actor, pageParam(c), h.perPage)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	render(c, http.StatusOK, "admin/gallery", gin.H{
		"Title":      "Galeri",
		"Items":      items,
		"Pagination": newPagination(c, h.perPage, total),
	})
}

func (h *GalleryHandler) CreatePage(c *gin.Context) {
	render(c, http.StatusOK, "admin/gallery_form", gin.H{"Title": "Unggah Foto"})
}

func (h *GalleryHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")

	fh, err := c.FormFile("image")
	if err != nil {
		if !noFile(err) {
			c.String(http.StatusBadRequest, "Gagal membaca berkas")
			return
		}
		h.formError(c, title, description, "Pilih foto yang akan diunggah")
		return
	}

	item, err := h.galleryService.Upload(c.Request.Context(), actor, title, description, fh)
	if err != nil {
		if !isUserError(err) {
			c.String(errorStatus(err), errorMessage(err))
			return
		}
		h.formError(c, title, description, err.Error())
		return
	}

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionGalleryUpload, services.EntityGallery, &item.ID,
		map[string]string{"title": item.Title}, c.ClientIP())
	redirect(c, "/admin/gallery")
}

// Delete removes an item and its file. Non-admins get a 403 for items they
// did not upload and the item stays in place.
func (h *GalleryHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	item, err := h.galleryService.Delete(c.Request.Context(), actor, id)
	if err != nil {
		failMutation(c, h.auditService, services.EntityGallery, id, actor, err)
		return
	}

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionGalleryDelete, services.EntityGallery, &id,
		map[string]string{"title": item.Title, "author_id": formatID(item.AuthorID)}, c.ClientIP())
	redirect(c, "/admin/gallery")
}

func (h *GalleryHandler) formError(c *gin.Context, title, description, message string) {
	render(c, http.StatusBadRequest, "admin/gallery_form", gin.H{
		"Title":       "Unggah Foto",
		"ItemTitle":   title,
		"Description": description,
		"Error":       message,
	})
}
