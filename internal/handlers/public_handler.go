package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"enscho/internal/repository"
	"enscho/internal/services"
)

type PublicHandler struct {
	posts    *services.PostService
	pages    *services.PageService
	majors   *services.MajorService
	partners *services.PartnerService
	gallery  *services.GalleryService
	pageSize int
}

func NewPublicHandler(posts *services.PostService, pages *services.PageService, majors *services.MajorService,
	partners *services.PartnerService, gallery *services.GalleryService, pageSize int) *PublicHandler {
	return &PublicHandler{
		posts:    posts,
		pages:    pages,
		majors:   majors,
		partners: partners,
		gallery:  gallery,
		pageSize: pageSize,
	}
}

func (h *PublicHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	posts, _, err := h.posts.List(ctx, repository.PostFilter{PublishedOnly: true, Limit: 6})
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	majors, err := h.majors.List(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	partners, err := h.partners.List(ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	photos, _, err := h.gallery.List(ctx, 0, 1, 8)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}

	render(c, http.StatusOK, "public/home", gin.H{
		"Posts":    posts,
		"Majors":   majors,
		"Partners": partners,
		"Photos":   photos,
	})
}

func (h *PublicHandler) News(c *gin.Context) {
	search := strings.TrimSpace(c.Query("q"))
	page := pageParam(c)
	filter := repository.PostFilter{
		PublishedOnly: true,
		Search:        search,
		Category:      c.Query("kategori"),
		Limit:         h.pageSize,
		Offset:        (page - 1) * h.pageSize,
	}

	posts, total, err := h.posts.List(c.Request.Context(), filter)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}

	render(c, http.StatusOK, "public/news", gin.H{
		"Title":      "Berita",
		"Posts":      posts,
		"Search":     search,
		"Pagination": newPagination(c, h.pageSize, total),
	})
}

func (h *PublicHandler) NewsDetail(c *gin.Context) {
	post, err := h.posts.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.notFoundOr(c, err)
		return
	}
	render(c, http.StatusOK, "public/news_detail", gin.H{"Title": post.Title, "Post": post})
}

func (h *PublicHandler) Majors(c *gin.Context) {
	majors, err := h.majors.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	render(c, http.StatusOK, "public/majors", gin.H{"Title": "Program Keahlian", "Majors": majors})
}

func (h *PublicHandler) MajorDetail(c *gin.Context) {
	major, err := h.majors.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.notFoundOr(c, err)
		return
	}
	render(c, http.StatusOK, "public/major_detail", gin.H{"Title": major.Name, "Major": major})
}

func (h *PublicHandler) Partners(c *gin.Context) {
	partners, err := h.partners.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	render(c, http.StatusOK, "public/partners", gin.H{"Title": "Mitra Industri", "Partners": partners})
}

func (h *PublicHandler) Gallery(c *gin.Context) {
	perPage := h.pageSize * 2
	photos, total, err := h.gallery.List(c.Request.Context(), 0, pageParam(c), perPage)
	if err != nil {
		c.String(http.StatusInternalServerError, errorMessage(err))
		return
	}
	render(c, http.StatusOK, "public/gallery", gin.H{
		"Title":      "Galeri",
		"Photos":     photos,
		"Pagination": newPagination(c, perPage, total),
	})
}

func (h *PublicHandler) Page(c *gin.Context) {
	page, err := h.pages.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.notFoundOr(c, err)
		return
	}
	render(c, http.StatusOK, "public/page", gin.H{"Title": page.Title, "Page": page})
}

func (h *PublicHandler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "public/not_found", gin.H{"Title": "Halaman tidak ditemukan"})
}

func (h *PublicHandler) notFoundOr(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		h.NotFound(c)
		return
	}
	c.String(http.StatusInternalServerError, errorMessage(err))
}
