package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"enscho/internal/database"
	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/migrations"
)

func TestMain(m *testing.M) {
	bcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	db       *database.DB
	users    *repository.UserRepository
	auth     *AuthService
	userSvc  *UserService
	posts    *PostService
	pages    *PageService
	majors   *MajorService
	partners *PartnerService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.New(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), migrations.FS))
	t.Cleanup(func() { db.Close() })

	users := repository.NewUserRepository(db)
	auth := NewAuthService(users, true)
	return &fixture{
		db:       db,
		users:    users,
		auth:     auth,
		userSvc:  NewUserService(users, auth),
		posts:    NewPostService(repository.NewPostRepository(db)),
		pages:    NewPageService(repository.NewPageRepository(db)),
		majors:   NewMajorService(repository.NewMajorRepository(db)),
		partners: NewPartnerService(repository.NewPartnerRepository(db)),
	}
}

func (f *fixture) user(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u, err := f.userSvc.Create(context.Background(), UserInput{
		Email:    email,
		Name:     email,
		Role:     string(role),
		Password: "rahasia123",
		IsActive: true,
	})
	require.NoError(t, err)
	return u
}
