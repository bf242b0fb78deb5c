package access

import (
	"errors"

	"enscho/internal/models"
)

var ErrNotOwner = errors.New("not the author of this item")

type Operation string

const (
	OpModify Operation = "modify"
	OpEdit   Operation = "edit"
	OpDelete Operation = "delete"
)

// OwnershipError is returned when a non-admin touches content they did not
// author. Its message is safe to show to the user.
type OwnershipError struct {
	Op Operation
}

func (e *OwnershipError) Error() string {
	return "you may only " + string(e.Op) + " your own item"
}

func (e *OwnershipError) Is(target error) bool {
	return target == ErrNotOwner
}

// Authorize allows the mutation iff the actor is an admin or the author.
func Authorize(actingUserID, resourceAuthorID string, actingRole models.Role) error {
	return authorize(OpModify, actingUserID, resourceAuthorID, actingRole)
}

// AuthorizeOp is Authorize with an operation name for the error message.
func AuthorizeOp(op Operation, actingUserID, resourceAuthorID string, actingRole models.Role) error {
	return authorize(op, actingUserID, resourceAuthorID, actingRole)
}

func authorize(op Operation, actingUserID, resourceAuthorID string, actingRole models.Role) error {
	if actingRole == models.RoleAdmin {
		return nil
	}
	if actingUserID != "" && actingUserID == resourceAuthorID {
		return nil
	}
	return &OwnershipError{Op: op}
}

// Authored is implemented by content carrying an author foreign key.
type Authored interface {
	OwnerID() int64
}

// Can checks the actor against a loaded resource. It must be called after the
// resource is loaded and before it is changed, on every mutation.
// The actor id is compared in parsed form, the same way listings and
// creates attribute content, so "05" and "5" are one user.
func (a Actor) Can(op Operation, resource Authored) error {
	if a.IsAdmin() {
		return nil
	}
	if id := a.ID(); id != 0 && id == resource.OwnerID() {
		return nil
	}
	return &OwnershipError{Op: op}
}
