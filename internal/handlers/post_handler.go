package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"enscho/internal/access"
	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/services"
)

type PostHandler struct {
	postService  *services.PostService
	uploads      *services.UploadService
	auditService *services.AuditService
	pageSize     int
}

func NewPostHandler(postService *services.PostService, uploads *services.UploadService, auditService *services.AuditService, pageSize int) *PostHandler {
	return &PostHandler{
		postService:  postService,
		uploads:      uploads,
		auditService: auditService,
		pageSize:     pageSize,
	}
}

// List shows every post to admins and only their own to other roles.
func (h *PostHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	search := strings.TrimSpace(c.Query("q"))
	page := pageParam(c)
	posts, total, err := h.postService.ListFor(c.Request.Context(), actor, repository.PostFilter{
		Search: search,
		Limit:  h.pageSize,
		Offset: (page - 1) * h.pageSize,
	})
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	render(c, http.StatusOK, "admin/posts", gin.H{
		"Title":      "Berita",
		"Posts":      posts,
		"Search":     search,
		"Pagination": newPagination(c, h.pageSize, total),
	})
}

func (h *PostHandler) CreatePage(c *gin.Context) {
	render(c, http.StatusOK, "admin/post_form", gin.H{
		"Title":  "Tulis Berita",
		"Action": "/admin/posts/create",
		"Post":   &models.Post{Category: "berita"},
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	in, err := h.input(c)
	if err == nil {
		var post *models.Post
		post, err = h.postService.Create(c.Request.Context(), actor, in)
		if err == nil {
			h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPostCreate, services.EntityPost, &post.ID,
				map[string]string{"title": post.Title}, c.ClientIP())
			redirect(c, "/admin/posts")
			return
		}
	}

	h.uploads.Remove(in.Image)
	h.formError(c, "Tulis Berita", "/admin/posts/create", &models.Post{}, in, err)
}

func (h *PostHandler) EditPage(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	if err := actor.Can(access.OpEdit, post); err != nil {
		c.String(http.StatusForbidden, err.Error())
		return
	}

	render(c, http.StatusOK, "admin/post_form", gin.H{
		"Title":  "Ubah Berita",
		"Action": "/admin/posts/edit/" + c.Param("id"),
		"Post":   post,
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	old, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		c.String(errorStatus(err), errorMessage(err))
		return
	}

	in, err := h.input(c)
	if err == nil {
		var post *models.Post
		post, err = h.postService.Update(c.Request.Context(), actor, id, in)
		if err == nil {
			if in.Image != "" && old.Image != in.Image {
				h.uploads.Remove(old.Image)
			}
			h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPostUpdate, services.EntityPost, &post.ID, nil, c.ClientIP())
			redirect(c, "/admin/posts")
			return
		}
	}

	h.uploads.Remove(in.Image)
	if !isUserError(err) {
		failMutation(c, h.auditService, services.EntityPost, id, actor, err)
		return
	}
	h.formError(c, "Ubah Berita", "/admin/posts/edit/"+c.Param("id"), &models.Post{ID: id}, in, err)
}

func (h *PostHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	post, err := h.postService.Delete(c.Request.Context(), actor, id)
	if err != nil {
		failMutation(c, h.auditService, services.EntityPost, id, actor, err)
		return
	}
	h.uploads.Remove(post.Image)

	h.auditService.LogUser(c.Request.Context(), actor.ID(), services.ActionPostDelete, services.EntityPost, &id,
		map[string]string{"title": post.Title}, c.ClientIP())
	redirect(c, "/admin/posts")
}

func (h *PostHandler) TogglePublish(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}

	published := c.PostForm("published") == "1"
	post, err := h.postService.SetPublished(c.Request.Context(), actor, id, published)
	if err != nil {
		failMutation(c, h.auditService, services.EntityPost, id, actor, err)
		return
	}

	action := services.ActionPostUnpublish
	if post.IsPublished {
		action = services.ActionPostPublish
	}
	h.auditService.LogUser(c.Request.Context(), actor.ID(), action, services.EntityPost, &id, nil, c.ClientIP())
	redirect(c, "/admin/posts")
}

func (h *PostHandler) input(c *gin.Context) (services.PostInput, error) {
	in := services.PostInput{
		Title:       c.PostForm("title"),
		Slug:        strings.TrimSpace(c.PostForm("slug")),
		Excerpt:     c.PostForm("excerpt"),
		Content:     c.PostForm("content"),
		Category:    c.PostForm("category"),
		IsPublished: c.PostForm("is_published") == "on",
	}
	image, err := optionalImage(c, h.uploads, "image")
	in.Image = image
	return in, err
}

func (h *PostHandler) formError(c *gin.Context, title, action string, post *models.Post, in services.PostInput, err error) {
	if !isUserError(err) {
		c.String(errorStatus(err), errorMessage(err))
		return
	}
	post.Title = in.Title
	post.Slug = in.Slug
	post.Excerpt = in.Excerpt
	post.Content = in.Content
	post.Category = in.Category
	post.IsPublished = in.IsPublished

	render(c, http.StatusBadRequest, "admin/post_form", gin.H{
		"Title":  title,
		"Action": action,
		"Post":   post,
		"Error":  err.Error(),
	})
}
