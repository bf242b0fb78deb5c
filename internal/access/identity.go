package access

import (
	"strconv"
	"strings"

	"enscho/internal/models"
)

// Identity combines the two independent identity signals a request can carry.
// Call sites must go through IsAdmin and Role instead of inspecting the
// cookies themselves.
type Identity struct {
	Token        SessionToken
	HasToken     bool
	AdminSession string
}

// IdentityFromCookies decodes raw cookie values. Empty strings mean the
// cookie was absent. The legacy admin_session cookie carries no signature,
// so it is ignored when sessions are signed.
func IdentityFromCookies(codec Codec, session, adminSession string) Identity {
	var id Identity
	if _, signed := codec.(*SignedCodec); !signed {
		id.AdminSession = strings.TrimSpace(adminSession)
	}
	if session != "" {
		id.Token, id.HasToken = codec.Decode(session)
	}
	return id
}

func (id Identity) IsAdmin() bool {
	return id.AdminSession != "" || (id.HasToken && id.Token.Role == models.RoleAdmin)
}

// Anonymous reports that neither cookie produced anything usable.
func (id Identity) Anonymous() bool {
	return !id.HasToken && id.AdminSession == ""
}

// Role is the effective role: ADMIN when either signal says so, otherwise
// whatever the session token claims (possibly not a known role).
func (id Identity) Role() models.Role {
	if id.IsAdmin() {
		return models.RoleAdmin
	}
	if id.HasToken {
		return id.Token.Role
	}
	return ""
}

// Actor is the identity as seen by mutation handlers.
func (id Identity) Actor() (Actor, bool) {
	switch {
	case id.HasToken:
		return Actor{UserID: id.Token.UserID, Role: id.Role()}, true
	case id.AdminSession != "":
		return Actor{UserID: id.AdminSession, Role: models.RoleAdmin}, true
	}
	return Actor{}, false
}

// Actor is the user a mutation is performed on behalf of. The claim comes
// from an unverified cookie, so ownership is checked on every mutation.
type Actor struct {
	UserID string
	Role   models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// ID returns the numeric user id, or 0 when the cookie carried something else.
func (a Actor) ID() int64 {
	id, err := strconv.ParseInt(a.UserID, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
