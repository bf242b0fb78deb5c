package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"enscho/internal/access"
	"enscho/internal/metrics"
	"enscho/internal/middleware"
	"enscho/internal/repository"
	"enscho/internal/services"
	"enscho/internal/validators"
)

// render adds the fields every layout needs and renders page.
func render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	id := middleware.GetIdentity(c)
	data["User"] = middleware.GetUser(c)
	data["Role"] = id.Role()
	data["IsAdmin"] = id.IsAdmin()
	data["CSRF"] = middleware.GetCSRFToken(c)
	data["Path"] = c.Request.URL.Path
	c.HTML(status, page, data)
}

// redirect answers both plain form posts and HTMX requests.
func redirect(c *gin.Context, location string) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusFound, location)
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "ID tidak valid")
		return 0, false
	}
	return id, true
}

// requireActor returns the acting user for a mutation, or answers 403.
func requireActor(c *gin.Context) (access.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.String(http.StatusForbidden, "Silakan login terlebih dahulu")
		return access.Actor{}, false
	}
	return actor, true
}

// isUserError reports errors caused by form input rather than the system.
func isUserError(err error) bool {
	var fe *services.FieldError
	if errors.As(err, &fe) {
		return true
	}
	for _, target := range []error{
		validators.ErrRequired, validators.ErrTooLong, validators.ErrInvalidEmail,
		validators.ErrInvalidSlug, validators.ErrInvalidURL, validators.ErrInvalidNISN,
		validators.ErrInvalidPhone, validators.ErrInvalidGender, validators.ErrInvalidImage,
		validators.ErrWeakPassword, services.ErrInvalidRole, services.ErrInvalidStatus,
		services.ErrNotAnImage, services.ErrFileTooBig, services.ErrWrongPassword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, access.ErrNotOwner), errors.Is(err, services.ErrNoActor):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict
	case isUserError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorMessage is what the user sees. Internal errors are logged, not shown.
func errorMessage(err error) string {
	switch status := errorStatus(err); status {
	case http.StatusInternalServerError:
		log.Printf("Error: %v", err)
		return "Terjadi kesalahan pada server"
	case http.StatusNotFound:
		return "Data tidak ditemukan"
	case http.StatusConflict:
		return "Data sudah ada"
	}
	return err.Error()
}

// failMutation answers a rejected mutation. Ownership violations are audited
// and counted before the 403.
func failMutation(c *gin.Context, audit *services.AuditService, entity string, id int64, actor access.Actor, err error) {
	if errors.Is(err, access.ErrNotOwner) {
		metrics.OwnershipDenials.WithLabelValues(entity).Inc()
		audit.LogUser(c.Request.Context(), actor.ID(), services.ActionOwnershipDeny, entity, services.IDPtr(id),
			map[string]string{"role": string(actor.Role)}, c.ClientIP())
	}
	c.String(errorStatus(err), errorMessage(err))
}

// optionalImage saves the named file upload when one was sent.
func optionalImage(c *gin.Context, uploads *services.UploadService, field string) (string, error) {
	fh, err := c.FormFile(field)
	if noFile(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return saveImage(uploads, fh)
}

// noFile reports a form without the file, including urlencoded forms.
func noFile(err error) bool {
	return errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart)
}

func saveImage(uploads *services.UploadService, fh *multipart.FileHeader) (string, error) {
	if fh.Size == 0 {
		return "", nil
	}
	return uploads.SaveImage(fh)
}

// Pagination drives the shared pager partial.
type Pagination struct {
	Page       int
	TotalPages int
	Total      int
	query      url.Values
	path       string
}

func newPagination(c *gin.Context, perPage, total int) Pagination {
	page := pageParam(c)
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	return Pagination{
		Page:       page,
		TotalPages: pages,
		Total:      total,
		query:      c.Request.URL.Query(),
		path:       c.Request.URL.Path,
	}
}

func pageParam(c *gin.Context) int {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return page
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p Pagination) PrevURL() string { return p.url(p.Page - 1) }
func (p Pagination) NextURL() string { return p.url(p.Page + 1) }

func (p Pagination) url(page int) string {
	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))
	return p.path + "?" + q.Encode()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
