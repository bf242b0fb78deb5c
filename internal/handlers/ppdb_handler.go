package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/services"
	"enscho/internal/validators"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Indonesian labels for the PPDB form fields, used in validation messages.
var registrationFields = map[string]string{
	"full_name":     "Nama lengkap",
	"nisn":          "NISN",
	"birth_place":   "Tempat lahir",
	"birth_date":    "Tanggal lahir",
	"gender":        "Jenis kelamin",
	"origin_school": "Asal sekolah",
	"phone":         "Nomor telepon",
	"email":         "Email",
	"address":       "Alamat",
	"parent_name":   "Nama orang tua",
	"parent_phone":  "Telepon orang tua",
	"major_id":      "Program keahlian",
}

type PPDBHandler struct {
	registrationService *services.RegistrationService
	majorService        *services.MajorService
	auditService        *services.AuditService
	perPage             int
}

func NewPPDBHandler(registrationService *services.RegistrationService, majorService *services.MajorService,
	auditService *services.AuditService, perPage int) *PPDBHandler {
	return &PPDBHandler{
		registrationService: registrationService,
		majorService:        majorService,
		auditService:        auditService,
		perPage:             perPage,
	}
}

// Form shows the registration form. ?cek=NUMBER jumps to the status page.
func (h *PPDBHandler) Form(c *gin.Context) {
	if number := strings.TrimSpace(c.Query("cek")); number != "" {
		c.Redirect(http.StatusFound, "/ppdb/"+url.PathEscape(strings.ToUpper(number)))
		return
	}
	h.renderForm(c, http.StatusOK, services.RegistrationInput{}, "", "")
}

func (h *PPDBHandler) Submit(c *gin.Context) {
	majorID, _ := strconv.ParseInt(c.PostForm("major_id"), 10, 64)
	in := services.RegistrationInput{
		FullName:     c.PostForm("full_name"),
		NISN:         c.PostForm("nisn"),
		BirthPlace:   c.PostForm("birth_place"),
		BirthDate:    c.PostForm("birth_date"),
		Gender:       c.PostForm("gender"),
		OriginSchool: c.PostForm("origin_school"),
		Phone:        c.PostForm("phone"),
		Email:        c.PostForm("email"),
		Address:      c.PostForm("address"),
		ParentName:   c.PostForm("parent_name"),
		ParentPhone:  c.PostForm("parent_phone"),
		MajorID:      majorID,
	}

	reg, err := h.registrationService.Submit(c.Request.Context(), in)
	if err != nil {
		var fe *services.FieldError
		if errors.As(err, &fe) {
			h.renderForm(c, http.StatusBadRequest, in, fe.Field, fieldMessage(fe))
			return
		}
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	h.auditService.LogAnonymous(c.Request.Context(), services.ActionPPDBSubmit, services.EntityRegistration,
		map[string]string{"number": reg.RegistrationNo, "major": reg.MajorName}, c.ClientIP())
	redirect(c, "/ppdb/"+reg.RegistrationNo)
}

// Status is the public lookup by registration number.
func (h *PPDBHandler) Status(c *gin.Context) {
	reg, err := h.registrationService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			render(c, http.StatusNotFound, "public/ppdb_status", gin.H{
				"Title":  "Status Pendaftaran",
				"Number": c.Param("number"),
			})
			return
		}
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	render(c, http.StatusOK, "public/ppdb_status", gin.H{
		"Title":        "Status Pendaftaran",
		"Number":       reg.RegistrationNo,
		"Registration": reg,
	})
}

func (h *PPDBHandler) renderForm(c *gin.Context, status int, in services.RegistrationInput, field, message string) {
	majors, err := h.majorService.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	render(c, status, "public/ppdb_form", gin.H{
		"Title":  "Pendaftaran Peserta Didik Baru",
		"Majors": majors,
		"Form":   in,
		"Field":  field,
		"Error":  message,
	})
}

func fieldMessage(fe *services.FieldError) string {
	label, ok := registrationFields[fe.Field]
	if !ok {
		label = fe.Field
	}
	switch fe.Field {
	case "nisn":
		return "NISN harus 10 digit angka"
	case "phone", "parent_phone":
		return label + " tidak valid (contoh: 081234567890)"
	case "birth_date":
		return "Tanggal lahir tidak valid"
	case "major_id":
		return "Pilih program keahlian"
	case "gender":
		return "Pilih jenis kelamin"
	case "email":
		return "Alamat email tidak valid"
	}
	if errors.Is(fe.Err, validators.ErrTooLong) {
		return label + " terlalu panjang"
	}
	return label + " wajib diisi"
}

// AdminList shows registrations, optionally filtered by ?status=.
func (h *PPDBHandler) AdminList(c *gin.Context) {
	status := models.RegistrationStatus(strings.ToUpper(c.Query("status")))
	if status != "" && !status.Valid() {
		status = ""
	}

	ctx := c.Request.Context()
	regs, err := h.registrationService.List(ctx, status, pageParam(c), h.perPage)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	counts, err := h.registrationService.Counts(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}

	total := counts[status]
	if status == "" {
		total = 0
		for _, n := range counts {
			total += n
		}
	}

	render(c, http.StatusOK, "admin/ppdb", gin.H{
		"Title":         "PPDB",
		"Registrations": regs,
		"Counts":        counts,
		"Status":        status,
		"Pagination":    newPagination(c, h.perPage, total),
	})
}

func (h *PPDBHandler) AdminView(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	reg, err := h.registrationService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	history, err := h.auditService.ListByEntity(c.Request.Context(), services.EntityRegistration, id, 20)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}

	render(c, http.StatusOK, "admin/ppdb_detail", gin.H{
		"Title":        reg.RegistrationNo,
		"Registration": reg,
		"History":      history,
	})
}

func (h *PPDBHandler) SetStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	status := models.RegistrationStatus(strings.ToUpper(c.PostForm("status")))
	notes := c.PostForm("notes")
	if err := h.registrationService.SetStatus(c.Request.Context(), id, status, notes); err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPPDBStatus, services.EntityRegistration, &id,
		map[string]string{"status": string(status)}, c.ClientIP())
	redirect(c, fmt.Sprintf("/admin/ppdb/view/%d", id))
}

// Export streams the registrations as an xlsx download.
func (h *PPDBHandler) Export(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	status := models.RegistrationStatus(strings.ToUpper(c.Query("status")))
	if status != "" && !status.Valid() {
		c.String(http.StatusBadRequest, "Status tidak valid")
		return
	}

	name := fmt.Sprintf("ppdb-%s.xlsx", time.Now().Format("20060102"))
	if status != "" {
		name = fmt.Sprintf("ppdb-%s-%s.xlsx", strings.ToLower(string(status)), time.Now().Format("20060102"))
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := h.registrationService.ExportXLSX(c.Request.Context(), status, c.Writer); err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPPDBExport, services.EntityRegistration, nil,
		map[string]string{"status": string(status)}, c.ClientIP())
}
