package web

import (
	"io/fs"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"enscho/internal/access"
	"enscho/internal/models"
)

func TestNew_ParsesEveryPage(t *testing.T) {
	r, err := New("SMK Uji", access.DefaultPolicy())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pages := []string{
		"public/home", "public/news", "public/news_detail", "public/majors", "public/major_detail",
		"public/partners", "public/gallery", "public/page", "public/not_found",
		"public/ppdb_form", "public/ppdb_status",
		"auth/login",
		"admin/dashboard", "admin/posts", "admin/post_form", "admin/pages", "admin/page_form",
		"admin/majors", "admin/major_form", "admin/partners", "admin/partner_form",
		"admin/gallery", "admin/gallery_form", "admin/ppdb", "admin/ppdb_detail",
		"admin/users", "admin/user_form", "admin/audit",
		"portal/dashboard", "portal/profile",
	}
	for _, name := range pages {
		if !r.Has(name) {
			t.Errorf("page %q not parsed", name)
		}
	}
}

func TestRender_EscapesContent(t *testing.T) {
	r, err := New("SMK Uji", access.DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	post := &models.Post{
		Title:       "Lomba <b>LKS</b>",
		Content:     "Paragraf satu.\n\n<script>alert(1)</script>",
		Category:    "berita",
		PublishedAt: &now,
	}

	w := httptest.NewRecorder()
	err = r.Instance("public/news_detail", map[string]any{
		"Title": post.Title,
		"Post":  post,
		"Role":  models.Role(""),
		"Path":  "/berita/lomba",
		"CSRF":  "token",
	}).Render(w)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := w.Body.String()
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Error("post content rendered unescaped")
	}
	if !strings.Contains(body, "<p>Paragraf satu.</p>") {
		t.Error("paragraphs not split")
	}
	if !strings.Contains(body, "SMK Uji") {
		t.Error("school name missing from layout")
	}
}

func TestDashboardNav_FollowsAllowList(t *testing.T) {
	r, err := New("SMK Uji", access.DefaultPolicy())
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	err = r.Instance("admin/gallery_form", map[string]any{
		"Title":   "Unggah Foto",
		"Role":    models.RoleStudent,
		"IsAdmin": false,
		"Path":    "/admin/gallery/create",
		"CSRF":    "token",
	}).Render(w)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	body := w.Body.String()
	if !strings.Contains(body, `href="/admin/gallery"`) {
		t.Error("student should see the gallery link")
	}
	for _, hidden := range []string{`href="/admin/posts"`, `href="/admin/users"`, `href="/admin"`} {
		if strings.Contains(body, hidden) {
			t.Errorf("student nav contains %s", hidden)
		}
	}
	if !strings.Contains(body, `href="/siswa"`) {
		t.Error("student should see their portal link")
	}
}

func TestParagraphs(t *testing.T) {
	got := paragraphs("a\r\n\r\n\n\nb\nc\n\n  ")
	if len(got) != 2 || got[0] != "a" || got[1] != "b\nc" {
		t.Errorf("paragraphs() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Sekolah Menengah Kejuruan", 7); got != "Sekolah…" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("pendek", 10); got != "pendek" {
		t.Errorf("truncate() = %q", got)
	}
}

func TestStaticFS(t *testing.T) {
	if _, err := fs.Stat(StaticFS(), "site.css"); err != nil {
		t.Errorf("site.css not embedded: %v", err)
	}
}
