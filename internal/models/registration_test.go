package models

import "testing"

func TestRegistrationStatus_Valid(t *testing.T) {
	tests := []struct {
		status RegistrationStatus
		valid  bool
	}{
		{RegistrationPending, true},
		{RegistrationVerified, true},
		{RegistrationAccepted, true},
		{RegistrationRejected, true},
		{"pending", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestRegistrationStatus_Label(t *testing.T) {
	if got := RegistrationAccepted.Label(); got != "Diterima" {
		t.Errorf("Label() = %q, want %q", got, "Diterima")
	}
	if got := RegistrationStatus("X").Label(); got != "X" {
		t.Errorf("Label() = %q, want %q", got, "X")
	}
}
