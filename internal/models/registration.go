package models

import "time"

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "PENDING"
	RegistrationVerified RegistrationStatus = "VERIFIED"
	RegistrationAccepted RegistrationStatus = "ACCEPTED"
	RegistrationRejected RegistrationStatus = "REJECTED"
)

var RegistrationStatuses = []RegistrationStatus{
	RegistrationPending,
	RegistrationVerified,
	RegistrationAccepted,
	RegistrationRejected,
}

func (s RegistrationStatus) Valid() bool {
	for _, v := range RegistrationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s RegistrationStatus) Label() string {
	switch s {
	case RegistrationPending:
		return "Menunggu"
	case RegistrationVerified:
		return "Terverifikasi"
	case RegistrationAccepted:
		return "Diterima"
	case RegistrationRejected:
		return "Ditolak"
	}
	return string(s)
}

// Registration is a PPDB (new student admission) application.
type Registration struct {
	ID             int64              `json:"id"`
	RegistrationNo string             `json:"registration_no"`
	FullName       string             `json:"full_name"`
	NISN           string             `json:"nisn"`
	BirthPlace     string             `json:"birth_place"`
	BirthDate      time.Time          `json:"birth_date"`
	Gender         string             `json:"gender"`
	OriginSchool   string             `json:"origin_school"`
	Phone          string             `json:"phone"`
	Email          string             `json:"email,omitempty"`
	Address        string             `json:"address"`
	ParentName     string             `json:"parent_name"`
	ParentPhone    string             `json:"parent_phone"`
	MajorID        int64              `json:"major_id"`
	Status         RegistrationStatus `json:"status"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	// Relations (loaded separately)
	MajorName string `json:"major_name,omitempty"`
}
