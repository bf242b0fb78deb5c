package validators

import (
	"errors"
	"strings"
	"testing"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		max     int
		wantErr error
	}{
		{"plain", "Berita sekolah", 200, nil},
		{"no limit", strings.Repeat("a", 1000), 0, nil},
		{"empty", "", 10, ErrRequired},
		{"blank", "   ", 10, ErrRequired},
		{"too long", strings.Repeat("a", 11), 10, ErrTooLong},
		{"runes not bytes", "ééééé", 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Required(tt.value, tt.max); !errors.Is(err, tt.wantErr) {
				t.Errorf("Required(%q, %d) error = %v, want %v", tt.value, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		// Valid
		{"admin@smk.sch.id", false},
		{"guru.budi@gmail.com", false},

		// Invalid
		{"", true},
		{"notanemail", true},
		{"Budi <budi@smk.sch.id>", true}, // display names not accepted
		{"budi@", true},
		{strings.Repeat("a", 250) + "@x.id", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug    string
		wantErr bool
	}{
		{"profil-sekolah", false},
		{"tkj", false},
		{"ppdb-2026", false},

		{"", true},
		{"Profil", true},
		{"-awal", true},
		{"akhir-", true},
		{"dua--strip", true},
		{"spasi di tengah", true},
		{"../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSlug(%q) error = %v, wantErr %v", tt.slug, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNISN(t *testing.T) {
	tests := []struct {
		nisn    string
		wantErr bool
	}{
		{"0012345678", false},
		{"", true},
		{"123456789", true},
		{"12345678901", true},
		{"00123x5678", true},
	}

	for _, tt := range tests {
		t.Run(tt.nisn, func(t *testing.T) {
			err := ValidateNISN(tt.nisn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNISN(%q) error = %v, wantErr %v", tt.nisn, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone   string
		wantErr bool
	}{
		{"081234567890", false},
		{"0812-3456-7890", false},
		{"+6281234567890", false},
		{"(021) 5551234", false},

		{"", true},
		{"12345", true},
		{"08123", true},
		{"0812abc45678", true},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			err := ValidatePhone(tt.phone)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePhone(%q) error = %v, wantErr %v", tt.phone, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGender(t *testing.T) {
	for _, g := range []string{"L", "P"} {
		if err := ValidateGender(g); err != nil {
			t.Errorf("ValidateGender(%q) error = %v", g, err)
		}
	}
	for _, g := range []string{"", "l", "X"} {
		if err := ValidateGender(g); err == nil {
			t.Errorf("ValidateGender(%q) should fail", g)
		}
	}
}

func TestValidateWebsite(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		// Valid
		{"", false},
		{"https://example.com", false},
		{"http://mitra.co.id/about", false},

		// Invalid
		{"example.com", true},
		{"/relative/path", true},
		{"javascript:alert(1)", true},
		{"data:text/html,<script>", true},
		{"ftp://example.com", true},
		{"https://" + strings.Repeat("a", 2048), true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateWebsite(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWebsite(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestImageExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{"foto.jpg", ".jpg", false},
		{"FOTO.JPEG", ".jpeg", false},
		{"logo.png", ".png", false},
		{"anim.gif", ".gif", false},
		{"x.webp", ".webp", false},

		{"script.php", "", true},
		{"foto.jpg.exe", "", true},
		{"noext", "", true},
		{"image.svg", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := ImageExtension(tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ImageExtension(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ImageExtension(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("ValidatePassword(short) error = %v", err)
	}
	if err := ValidatePassword("cukuppanjang"); err != nil {
		t.Errorf("ValidatePassword(cukuppanjang) error = %v", err)
	}
}
