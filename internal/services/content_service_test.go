package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enscho/internal/access"
	"enscho/internal/config"
	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/validators"
)

func actorOf(u *models.User) access.Actor {
	return access.Actor{UserID: strconv.FormatInt(u.ID, 10), Role: u.Role}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Penerimaan Siswa Baru 2026", "penerimaan-siswa-baru-2026"},
		{"  Juara 1 -- Lomba LKS!  ", "juara-1-lomba-lks"},
		{"Café Sekolah", "cafe-sekolah"},
		{"Teknik Komputer & Jaringan", "teknik-komputer-jaringan"},
		{"???", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_Length(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "kata "
	}
	slug := Slugify(long)
	assert.LessOrEqual(t, len(slug), maxSlugLength)
	assert.NoError(t, validators.ValidateSlug(slug))
}

func TestPostService_CreateAndSlugs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	guru := f.user(t, "guru@smk.sch.id", models.RoleTeacher)

	in := PostInput{Title: "Upacara Bendera", Content: "isi", IsPublished: true}
	first, err := f.posts.Create(ctx, actorOf(guru), in)
	require.NoError(t, err)
	second, err := f.posts.Create(ctx, actorOf(guru), in)
	require.NoError(t, err)

	assert.Equal(t, "upacara-bendera", first.Slug)
	assert.Equal(t, "upacara-bendera-2", second.Slug)
	assert.Equal(t, guru.ID, first.AuthorID)
	assert.NotNil(t, first.PublishedAt)
	assert.Equal(t, "berita", first.Category)

	// Re-saving keeps the slug instead of bumping it
	updated, err := f.posts.Update(ctx, actorOf(guru), first.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "upacara-bendera", updated.Slug)

	_, err = f.posts.Create(ctx, actorOf(guru), PostInput{Title: "", Content: "x"})
	assert.ErrorIs(t, err, validators.ErrRequired)

	_, err = f.posts.Create(ctx, access.Actor{UserID: "abc", Role: models.RoleTeacher}, in)
	assert.ErrorIs(t, err, ErrNoActor)
}

func TestPostService_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	guru := f.user(t, "guru@smk.sch.id", models.RoleTeacher)
	alumni := f.user(t, "alumni@smk.sch.id", models.RoleAlumni)
	admin := f.user(t, "admin@smk.sch.id", models.RoleAdmin)

	post, err := f.posts.Create(ctx, actorOf(guru), PostInput{Title: "Kabar Guru", Content: "isi"})
	require.NoError(t, err)

	_, err = f.posts.Update(ctx, actorOf(alumni), post.ID, PostInput{Title: "Dibajak", Content: "x"})
	require.ErrorIs(t, err, access.ErrNotOwner)
	assert.Equal(t, "you may only edit your own item", err.Error())

	_, err = f.posts.SetPublished(ctx, actorOf(alumni), post.ID, true)
	assert.ErrorIs(t, err, access.ErrNotOwner)

	_, err = f.posts.Delete(ctx, actorOf(alumni), post.ID)
	require.ErrorIs(t, err, access.ErrNotOwner)
	assert.Equal(t, "you may only delete your own item", err.Error())

	still, err := f.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kabar Guru", still.Title)
	assert.False(t, still.IsPublished)

	published, err := f.posts.SetPublished(ctx, actorOf(admin), post.ID, true)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)

	_, err = f.posts.Delete(ctx, actorOf(admin), post.ID)
	require.NoError(t, err)
	_, err = f.posts.Get(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostService_ListForAndPublished(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	guru := f.user(t, "guru@smk.sch.id", models.RoleTeacher)
	alumni := f.user(t, "alumni@smk.sch.id", models.RoleAlumni)
	admin := f.user(t, "admin@smk.sch.id", models.RoleAdmin)

	_, err := f.posts.Create(ctx, actorOf(guru), PostInput{Title: "Draft", Content: "x"})
	require.NoError(t, err)
	_, err = f.posts.Create(ctx, actorOf(alumni), PostInput{Title: "Terbit", Content: "x", IsPublished: true})
	require.NoError(t, err)

	mine, total, err := f.posts.ListFor(ctx, actorOf(guru), repository.PostFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, 1, total)

	all, total, err := f.posts.ListFor(ctx, actorOf(admin), repository.PostFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, total)

	_, err = f.posts.GetPublished(ctx, "draft")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, err := f.posts.GetPublished(ctx, "terbit")
	require.NoError(t, err)
	assert.Equal(t, alumni.Name, got.AuthorName)
}

func TestGalleryService_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cfg := &config.Config{}
	cfg.Uploads.Path = t.TempDir()
	cfg.Uploads.URLPrefix = "/uploads"
	cfg.Limits.MaxUploadSize = 1 << 20
	uploads := NewUploadService(cfg)
	gallery := NewGalleryService(repository.NewGalleryRepository(f.db), uploads)

	owner := f.user(t, "siswa1@smk.sch.id", models.RoleStudent)
	other := f.user(t, "siswa2@smk.sch.id", models.RoleStudent)
	guru := f.user(t, "guru@smk.sch.id", models.RoleTeacher)
	admin := f.user(t, "admin@smk.sch.id", models.RoleAdmin)

	url, err := uploads.Save("karya.png", pngReader())
	require.NoError(t, err)
	item, err := gallery.create(ctx, owner.ID, "Karya Siswa", "", url)
	require.NoError(t, err)

	for _, intruder := range []*models.User{other, guru} {
		_, err = gallery.Delete(ctx, actorOf(intruder), item.ID)
		require.ErrorIs(t, err, access.ErrNotOwner, "role %s", intruder.Role)
		assert.Equal(t, "you may only delete your own item", err.Error())
	}

	remaining, err := gallery.Get(ctx, item.ID)
	require.NoError(t, err, "item must remain after a rejected delete")
	assert.Equal(t, owner.ID, remaining.AuthorID)
	assert.FileExists(t, mustPath(t, uploads, url))

	_, err = gallery.Delete(ctx, actorOf(admin), item.ID)
	require.NoError(t, err)
	_, err = gallery.Get(ctx, item.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoFileExists(t, mustPath(t, uploads, url))

	// The author can delete their own
	url2, err := uploads.Save("lagi.png", pngReader())
	require.NoError(t, err)
	own, err := gallery.create(ctx, owner.ID, "Lagi", "", url2)
	require.NoError(t, err)
	_, err = gallery.Delete(ctx, actorOf(owner), own.ID)
	assert.NoError(t, err)

	items, total, err := gallery.ListFor(ctx, actorOf(other), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, total)
}

func TestPageService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	page, err := f.pages.Create(ctx, PageInput{Title: "Visi & Misi", Content: "isi"})
	require.NoError(t, err)
	assert.Equal(t, "visi-misi", page.Slug)

	_, err = f.pages.GetPublished(ctx, "visi-misi")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.pages.Update(ctx, page.ID, PageInput{Title: "Visi dan Misi", Slug: "visi-misi", Content: "isi", IsPublished: true})
	require.NoError(t, err)
	got, err := f.pages.GetPublished(ctx, "visi-misi")
	require.NoError(t, err)
	assert.Equal(t, "Visi dan Misi", got.Title)

	_, err = f.pages.Create(ctx, PageInput{Title: "x", Slug: "Bukan Slug"})
	assert.ErrorIs(t, err, validators.ErrInvalidSlug)

	require.NoError(t, f.pages.Delete(ctx, page.ID))
	assert.ErrorIs(t, f.pages.Delete(ctx, page.ID), repository.ErrNotFound)
}

func TestMajorService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	major, err := f.majors.Create(ctx, MajorInput{Name: "Teknik Komputer dan Jaringan", Code: "tkj"})
	require.NoError(t, err)
	assert.Equal(t, "tkj", major.Slug)
	assert.Equal(t, "TKJ", major.Code)

	got, err := f.majors.GetBySlug(ctx, "tkj")
	require.NoError(t, err)
	assert.Equal(t, major.ID, got.ID)

	_, err = f.majors.Create(ctx, MajorInput{Name: ""})
	assert.ErrorIs(t, err, validators.ErrRequired)
}

func TestPartnerService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.partners.Create(ctx, PartnerInput{Name: "PT Maju", Website: "javascript:alert(1)"})
	assert.ErrorIs(t, err, validators.ErrInvalidURL)

	p, err := f.partners.Create(ctx, PartnerInput{Name: "PT Maju", Website: "https://maju.co.id"})
	require.NoError(t, err)

	updated, err := f.partners.Update(ctx, p.ID, PartnerInput{Name: "PT Maju Jaya"})
	require.NoError(t, err)
	assert.Equal(t, "PT Maju Jaya", updated.Name)

	list, err := f.partners.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u := f.user(t, "Guru@SMK.sch.id", models.RoleTeacher)
	assert.Equal(t, "guru@smk.sch.id", u.Email)

	_, err := f.userSvc.Create(ctx, UserInput{Email: "guru@smk.sch.id", Name: "x", Role: "TEACHER", Password: "rahasia123"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = f.userSvc.Create(ctx, UserInput{Email: "x@smk.sch.id", Name: "x", Role: "KEPSEK", Password: "rahasia123"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	updated, err := f.userSvc.Update(ctx, u.ID, UserInput{Email: "guru@smk.sch.id", Name: "Pak Guru", Role: "alumni", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAlumni, updated.Role)

	// Empty password on update keeps the old one
	_, err = f.auth.Login(ctx, "guru@smk.sch.id", "rahasia123")
	assert.NoError(t, err)

	profile, err := f.userSvc.UpdateProfile(ctx, u.ID, "Bu Alumni", "")
	require.NoError(t, err)
	assert.Equal(t, "Bu Alumni", profile.Name)
}
