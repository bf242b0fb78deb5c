package models

import (
	"strconv"
	"time"
)

// AuditLog is one entry of the activity trail shown at /admin/audit. UserID
// is nil for anonymous events such as failed logins and PPDB submissions.
type AuditLog struct {
	ID         int64     `json:"id"`
	UserID     *int64    `json:"user_id,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   *int64    `json:"entity_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	IP         string    `json:"ip"`
	CreatedAt  time.Time `json:"created_at"`

	UserEmail string `json:"user_email,omitempty"` // joined from users
}

var entityLabels = map[string]string{
	"user":         "Pengguna",
	"post":         "Berita",
	"page":         "Halaman",
	"major":        "Jurusan",
	"partner":      "Mitra",
	"gallery":      "Galeri",
	"registration": "PPDB",
}

// Target is the affected object as shown in the activity table,
// e.g. "Berita #12".
func (a *AuditLog) Target() string {
	label, ok := entityLabels[a.EntityType]
	if !ok {
		label = a.EntityType
	}
	if a.EntityID == nil {
		return label
	}
	return label + " #" + strconv.FormatInt(*a.EntityID, 10)
}
