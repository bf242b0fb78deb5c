package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"enscho/internal/models"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name    string
		actor   string
		author  string
		role    models.Role
		wantErr bool
	}{
		{"author student", "7", "7", models.RoleStudent, false},
		{"other student", "8", "7", models.RoleStudent, true},
		{"other teacher", "8", "7", models.RoleTeacher, true},
		{"admin not author", "1", "7", models.RoleAdmin, false},
		{"empty actor", "", "", models.RoleTeacher, true},
		{"unknown role author", "7", "7", "JANITOR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.author, tt.role)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrNotOwner)
		})
	}
}

func TestOwnershipError_Message(t *testing.T) {
	err := AuthorizeOp(OpDelete, "8", "7", models.RoleStudent)

	var oe *OwnershipError
	if assert.True(t, errors.As(err, &oe)) {
		assert.Equal(t, OpDelete, oe.Op)
	}
	assert.Equal(t, "you may only delete your own item", err.Error())
	assert.Equal(t, "you may only modify your own item", Authorize("8", "7", models.RoleAlumni).Error())
}

func TestActor_Can(t *testing.T) {
	item := &models.GalleryItem{ID: 1, AuthorID: 7}

	assert.NoError(t, Actor{UserID: "7", Role: models.RoleStudent}.Can(OpDelete, item))
	assert.NoError(t, Actor{UserID: "1", Role: models.RoleAdmin}.Can(OpDelete, item))
	assert.ErrorIs(t, Actor{UserID: "8", Role: models.RoleStudent}.Can(OpDelete, item), ErrNotOwner)

	// ids compare as numbers, like listings and creates
	assert.NoError(t, Actor{UserID: "07", Role: models.RoleStudent}.Can(OpDelete, item))
	assert.ErrorIs(t, Actor{UserID: "seven", Role: models.RoleStudent}.Can(OpDelete, item), ErrNotOwner)
	assert.ErrorIs(t, Actor{UserID: "0", Role: models.RoleStudent}.Can(OpDelete, &models.GalleryItem{}), ErrNotOwner)

	post := &models.Post{ID: 2, AuthorID: 4}
	err := Actor{UserID: "5", Role: models.RoleAlumni}.Can(OpEdit, post)
	assert.EqualError(t, err, "you may only edit your own item")
}
