package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enscho/internal/models"
	"enscho/internal/services"
)

type MajorHandler struct {
	majorService *services.MajorService
	uploads      *services.UploadService
	auditService *services.AuditService
}

func NewMajorHandler(majorService *services.MajorService, uploads *services.UploadService, auditService *services.AuditService) *MajorHandler {
	return &MajorHandler{majorService: majorService, uploads: uploads, auditService: auditService}
}

func (h *MajorHandler) List(c *gin.Context) {
	majors, err := h.majorService.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	render(c, http.StatusOK, "admin/majors", gin.H{"Title": "Program Keahlian", "Majors": majors})
}

func (h *MajorHandler) CreatePage(c *gin.Context) {
	render(c, http.StatusOK, "admin/major_form", gin.H{
		"Title":  "Program Keahlian Baru",
		"Action": "/admin/jurusan/create",
		"Major":  &models.Major{},
	})
}

func (h *MajorHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	in, err := h.input(c)
	if err == nil {
		var major *models.Major
		major, err = h.majorService.Create(c.Request.Context(), in)
		if err == nil {
			h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionMajorCreate, services.EntityMajor, &major.ID,
				map[string]string{"code": major.Code}, c.ClientIP())
			redirect(c, "/admin/jurusan")
			return
		}
	}

	h.uploads.Remove(in.Image)
	h.formError(c, "Program Keahlian Baru", "/admin/jurusan/create", &models.Major{}, in, err)
}

func (h *MajorHandler) EditPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	major, err := h.majorService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	render(c, http.StatusOK, "admin/major_form", gin.H{
		"Title":  "Ubah Program Keahlian",
		"Action": "/admin/jurusan/edit/" + c.Param("id"),
		"Major":  major,
	})
}

func (h *MajorHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	old, err := h.majorService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	in, err := h.input(c)
	if err == nil {
		if in.Image == "" {
			in.Image = old.Image
		}
		_, err = h.majorService.Update(c.Request.Context(), id, in)
		if err == nil {
			if in.Image != old.Image {
				h.uploads.Remove(old.Image)
			}
			h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionMajorUpdate, services.EntityMajor, &id, nil, c.ClientIP())
			redirect(c, "/admin/jurusan")
			return
		}
	}

	if in.Image != old.Image {
		h.uploads.Remove(in.Image)
	}
	h.formError(c, "Ubah Program Keahlian", "/admin/jurusan/edit/"+c.Param("id"), &models.Major{ID: id, Image: old.Image}, in, err)
}

func (h *MajorHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	major, err := h.majorService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	if err := h.majorService.Delete(c.Request.Context(), id); err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	h.uploads.Remove(major.Image)

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionMajorDelete, services.EntityMajor, &id,
		map[string]string{"code": major.Code}, c.ClientIP())
	redirect(c, "/admin/jurusan")
}

func (h *MajorHandler) input(c *gin.Context) (services.MajorInput, error) {
	in := services.MajorInput{
		Name:        c.PostForm("name"),
		Slug:        c.PostForm("slug"),
		Code:        c.PostForm("code"),
		Description: c.PostForm("description"),
	}
	image, err := optionalImage(c, h.uploads, "image")
	in.Image = image
	return in, err
}

func (h *MajorHandler) formError(c *gin.Context, title, action string, major *models.Major, in services.MajorInput, err error) {
	if !isUserError(err) {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	major.Name = in.Name
	major.Slug = in.Slug
	major.Code = in.Code
	major.Description = in.Description

	render(c, http.StatusBadRequest, "admin/major_form", gin.H{
		"Title":  title,
		"Action": action,
		"Major":  major,
		"Error":  err.Error(),
	})
}
