package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"enscho/internal/models"
	"enscho/internal/services"
)

type PartnerHandler struct {
	partnerService *services.PartnerService
	uploads        *services.UploadService
	auditService   *services.AuditService
}

func NewPartnerHandler(partnerService *services.PartnerService, uploads *services.UploadService, auditService *services.AuditService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService, uploads: uploads, auditService: auditService}
}

func (h *PartnerHandler) List(c *gin.Context) {
	partners, err := h.partnerService.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	render(c, http.StatusOK, "admin/partners", gin.H{"Title": "Mitra Industri", "Partners": partners})
}

func (h *PartnerHandler) CreatePage(c *gin.Context) {
	render(c, http.StatusOK, "admin/partner_form", gin.H{
		"Title":   "Mitra Baru",
		"Action":  "/admin/partners/create",
		"Partner": &models.Partner{},
	})
}

func (h *PartnerHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	in, err := h.input(c)
	if err == nil {
		var partner *models.Partner
		partner, err = h.partnerService.Create(c.Request.Context(), in)
		if err == nil {
			h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPartnerCreate, services.EntityPartner, &partner.ID,
				map[string]string{"name": partner.Name}, c.ClientIP())
			redirect(c, "/admin/partners")
			return
		}
	}

	h.uploads.Remove(in.Logo)
	h.formError(c, "Mitra Baru", "/admin/partners/create", &models.Partner{}, in, err)
}

func (h *PartnerHandler) EditPage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	partner, err := h.partnerService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	render(c, http.StatusOK, "admin/partner_form", gin.H{
		"Title":   "Ubah Mitra",
		"Action":  "/admin/partners/edit/" + c.Param("id"),
		"Partner": partner,
	})
}

func (h *PartnerHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	old, err := h.partnerService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	in, err := h.input(c)
	if err == nil {
		if in.Logo == "" {
			in.Logo = old.Logo
		}
		_, err = h.partnerService.Update(c.Request.Context(), id, in)
		if err == nil {
			if in.Logo != old.Logo {
				h.uploads.Remove(old.Logo)
			}
			h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPartnerUpdate, services.EntityPartner, &id, nil, c.ClientIP())
			redirect(c, "/admin/partners")
			return
		}
	}

	if in.Logo != old.Logo {
		h.uploads.Remove(in.Logo)
	}
	h.formError(c, "Ubah Mitra", "/admin/partners/edit/"+c.Param("id"), &models.Partner{ID: id, Logo: old.Logo}, in, err)
}

func (h *PartnerHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	partner, err := h.partnerService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	if err := h.partnerService.Delete(c.Request.Context(), id); err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	h.uploads.Remove(partner.Logo)

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPartnerDelete, services.EntityPartner, &id,
		map[string]string{"name": partner.Name}, c.ClientIP())
	redirect(c, "/admin/partners")
}

func (h *PartnerHandler) input(c *gin.Context) (services.PartnerInput, error) {
	in := services.PartnerInput{
		Name:        c.PostForm("name"),
		Website:     c.PostForm("website"),
		Description: c.PostForm("description"),
	}
	logo, err := optionalImage(c, h.uploads, "logo")
	in.Logo = logo
	return in, err
}

func (h *PartnerHandler) formError(c *gin.Context, title, action string, partner *models.Partner, in services.PartnerInput, err error) {
	if !isUserError(err) {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	partner.Name = in.Name
	partner.Website = in.Website
	partner.Description = in.Description

	render(c, http.StatusBadRequest, "admin/partner_form", gin.H{
		"Title":   title,
		"Action":  action,
		"Partner": partner,
		"Error":   err.Error(),
	})
}
