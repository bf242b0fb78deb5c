package models

import "testing"

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{
			name:     "admin role",
			role:     RoleAdmin,
			expected: true,
		},
		{
			name:     "teacher role",
			role:     RoleTeacher,
			expected: false,
		},
		{
			name:     "lower-case admin is not admin",
			role:     "admin",
			expected: false,
		},
		{
			name:     "empty role",
			role:     "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := User{Role: tt.role}
			if got := user.IsAdmin(); got != tt.expected {
				t.Errorf("IsAdmin() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"ADMIN", RoleAdmin, true},
		{"teacher", RoleTeacher, true},
		{" Student ", RoleStudent, true},
		{"ALUMNI", RoleAlumni, true},
		{"JANITOR", "JANITOR", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRole(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseRole(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRole_PortalAndHome(t *testing.T) {
	tests := []struct {
		role   Role
		portal string
		home   string
	}{
		{RoleAdmin, "", "/admin"},
		{RoleTeacher, "guru", "/guru"},
		{RoleStudent, "siswa", "/siswa"},
		{RoleAlumni, "alumni", "/alumni"},
		{"JANITOR", "", "/"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.Portal(); got != tt.portal {
				t.Errorf("Portal() = %q, want %q", got, tt.portal)
			}
			if got := tt.role.Home(); got != tt.home {
				t.Errorf("Home() = %q, want %q", got, tt.home)
			}
			if tt.portal != "" {
				back, ok := RoleForPortal(tt.portal)
				if !ok || back != tt.role {
					t.Errorf("RoleForPortal(%q) = %q, %v", tt.portal, back, ok)
				}
			}
		})
	}
}

func TestRole_Constants(t *testing.T) {
	if RoleAdmin != "ADMIN" {
		t.Errorf("RoleAdmin = %q, expected %q", RoleAdmin, "ADMIN")
	}
	if RoleTeacher != "TEACHER" {
		t.Errorf("RoleTeacher = %q, expected %q", RoleTeacher, "TEACHER")
	}
	if len(Roles) != 4 {
		t.Errorf("len(Roles) = %d, expected 4", len(Roles))
	}
}
