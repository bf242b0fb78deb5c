// Package access decides who may reach which part of the site.
//
// The session is carried entirely in cookies: a "session" cookie holding
// "{userId}:{role}" and an optional legacy "admin_session" cookie holding a
// bare user id. Nothing here touches the database; the policy is a pure
// function of the request path and the decoded cookies.
package access

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"enscho/internal/models"
)

const (
	SessionCookie      = "session"
	AdminSessionCookie = "admin_session"
)

// SessionToken is the decoded value of the session cookie.
type SessionToken struct {
	UserID string
	Role   models.Role
}

func (t SessionToken) String() string {
	return t.UserID + ":" + string(t.Role)
}

// Codec turns tokens into cookie values and back. Decode never fails loudly:
// anything it cannot make sense of comes back with ok == false.
type Codec interface {
	Encode(t SessionToken) string
	Decode(raw string) (t SessionToken, ok bool)
}

// PlainCodec reads and writes the bare "{userId}:{role}" form.
type PlainCodec struct{}

func (PlainCodec) Encode(t SessionToken) string {
	return t.String()
}

func (PlainCodec) Decode(raw string) (SessionToken, bool) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return SessionToken{}, false
	}
	userID := strings.TrimSpace(parts[0])
	role := strings.TrimSpace(parts[1])
	if userID == "" || role == "" {
		return SessionToken{}, false
	}
	return SessionToken{UserID: userID, Role: models.Role(role)}, true
}

// SignedCodec appends an HMAC-SHA256 of "{userId}:{role}" so that the role
// cannot be edited client side: "{userId}:{role}:{mac}".
type SignedCodec struct {
	secret []byte
}

func NewSignedCodec(secret string) *SignedCodec {
	return &SignedCodec{secret: []byte(secret)}
}

func (c *SignedCodec) Encode(t SessionToken) string {
	payload := t.String()
	return payload + ":" + c.mac(payload)
}

func (c *SignedCodec) Decode(raw string) (SessionToken, bool) {
	i := strings.LastIndex(raw, ":")
	if i <= 0 {
		return SessionToken{}, false
	}
	payload, sig := raw[:i], raw[i+1:]
	if strings.Count(payload, ":") != 1 {
		return SessionToken{}, false
	}
	if !hmac.Equal([]byte(sig), []byte(c.mac(payload))) {
		return SessionToken{}, false
	}
	return PlainCodec{}.Decode(payload)
}

func (c *SignedCodec) mac(payload string) string {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
