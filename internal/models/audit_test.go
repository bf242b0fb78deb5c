package models

import "testing"

func TestAuditLog_Target(t *testing.T) {
	id := int64(12)
	tests := []struct {
		log  AuditLog
		want string
	}{
		{AuditLog{EntityType: "post", EntityID: &id}, "Berita #12"},
		{AuditLog{EntityType: "registration", EntityID: &id}, "PPDB #12"},
		{AuditLog{EntityType: "user"}, "Pengguna"},
		{AuditLog{EntityType: "setting", EntityID: &id}, "setting #12"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.log.Target(); got != tt.want {
				t.Errorf("Target() = %q, want %q", got, tt.want)
			}
		})
	}
}
