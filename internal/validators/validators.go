package validators

import (
	"errors"
	"net/mail"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrRequired      = errors.New("field is required")
	ErrTooLong       = errors.New("value is too long")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidSlug   = errors.New("invalid slug")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrInvalidNISN   = errors.New("NISN must be 10 digits")
	ErrInvalidPhone  = errors.New("invalid phone number")
	ErrInvalidGender = errors.New("gender must be L or P")
	ErrInvalidImage  = errors.New("unsupported image type")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
)

// Slug: lower-case ASCII words joined by single dashes
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NISN: national student number, exactly 10 digits
var nisnRegex = regexp.MustCompile(`^[0-9]{10}$`)

// Indonesian mobile/landline: optional +62 or 0 prefix, 8-13 digits after it
var phoneRegex = regexp.MustCompile(`^(\+62|62|0)[0-9]{8,13}$`)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

const MinPasswordLength = 8

// Required rejects blank values and values longer than max runes (0 = no limit).
func Required(value string, max int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrRequired
	}
	if max > 0 && utf8.RuneCountInString(value) > max {
		return ErrTooLong
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" || len(email) > 254 {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateSlug(slug string) error {
	if slug == "" || len(slug) > 200 {
		return ErrInvalidSlug
	}
	if !slugRegex.MatchString(slug) {
		return ErrInvalidSlug
	}
	return nil
}

func ValidateNISN(nisn string) error {
	if !nisnRegex.MatchString(nisn) {
		return ErrInvalidNISN
	}
	return nil
}

// NormalizePhone strips spaces and dashes people type into phone fields.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(NormalizePhone(phone)) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidateGender(g string) error {
	if g != "L" && g != "P" {
		return ErrInvalidGender
	}
	return nil
}

// ValidateWebsite accepts an empty value or an absolute http(s) URL.
func ValidateWebsite(rawURL string) error {
	if rawURL == "" {
		return nil
	}
	if len(rawURL) > 2048 {
		return ErrInvalidURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ErrInvalidURL
	}

	// Reject dangerous schemes (XSS vectors)
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return ErrInvalidURL
	}
	return nil
}

// ImageExtension returns the lower-cased extension of filename when it is an
// accepted image type.
func ImageExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return "", ErrInvalidImage
	}
	return ext, nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
