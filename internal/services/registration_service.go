package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"enscho/internal/metrics"
	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/validators"
)

var (
	ErrInvalidStatus = errors.New("invalid registration status")
	ErrInvalidMajor  = errors.New("selected major does not exist")
	ErrInvalidDate   = errors.New("birth date must be YYYY-MM-DD")
)

const (
	registrationPrefix = "PPDB"
	exportSheet        = "PPDB"
	numberAttempts     = 5
)

// FieldError ties a validation failure to a form field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// RegistrationInput is the public PPDB form as submitted.
type RegistrationInput struct {
	FullName     string
	NISN         string
	BirthPlace   string
	BirthDate    string // YYYY-MM-DD
	Gender       string // L or P
	OriginSchool string
	Phone        string
	Email        string
	Address      string
	ParentName   string
	ParentPhone  string
	MajorID      int64
}

type RegistrationService struct {
	repo   *repository.RegistrationRepository
	majors *repository.MajorRepository
	now    func() time.Time
}

func NewRegistrationService(repo *repository.RegistrationRepository, majors *repository.MajorRepository) *RegistrationService {
	return &RegistrationService{repo: repo, majors: majors, now: time.Now}
}

// Submit validates the form and stores a PENDING registration with a fresh
// number of the form PPDB-{year}-{sequence}.
func (s *RegistrationService) Submit(ctx context.Context, in RegistrationInput) (*models.Registration, error) {
	reg, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < numberAttempts; attempt++ {
		number, err := s.nextNumber(ctx)
		if err != nil {
			return nil, err
		}
		reg.RegistrationNo = number
		err = s.repo.Create(ctx, reg)
		if err == nil {
			metrics.Registrations.Inc()
			return reg, nil
		}
		// Lost a race for the number: try the next one
		if taken, _ := s.repo.NumberExists(ctx, number); !taken {
			return nil, fmt.Errorf("create registration: %w", err)
		}
	}
	return nil, fmt.Errorf("create registration: no free number after %d attempts", numberAttempts)
}

func (s *RegistrationService) build(ctx context.Context, in RegistrationInput) (*models.Registration, error) {
	required := []struct {
		field, value string
		max          int
	}{
		{"full_name", in.FullName, 150},
		{"birth_place", in.BirthPlace, 100},
		{"origin_school", in.OriginSchool, 150},
		{"address", in.Address, 500},
		{"parent_name", in.ParentName, 150},
	}
	for _, r := range required {
		if err := validators.Required(r.value, r.max); err != nil {
			return nil, &FieldError{Field: r.field, Err: err}
		}
	}
	if err := validators.ValidateNISN(strings.TrimSpace(in.NISN)); err != nil {
		return nil, &FieldError{Field: "nisn", Err: err}
	}
	if err := validators.ValidateGender(in.Gender); err != nil {
		return nil, &FieldError{Field: "gender", Err: err}
	}
	if err := validators.ValidatePhone(in.Phone); err != nil {
		return nil, &FieldError{Field: "phone", Err: err}
	}
	if err := validators.ValidatePhone(in.ParentPhone); err != nil {
		return nil, &FieldError{Field: "parent_phone", Err: err}
	}
	email := normalizeEmail(in.Email)
	if email != "" {
		if err := validators.ValidateEmail(email); err != nil {
			return nil, &FieldError{Field: "email", Err: err}
		}
	}

	birth, err := time.Parse("2006-01-02", strings.TrimSpace(in.BirthDate))
	if err != nil || birth.After(s.now()) {
		return nil, &FieldError{Field: "birth_date", Err: ErrInvalidDate}
	}

	major, err := s.majors.GetByID(ctx, in.MajorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &FieldError{Field: "major_id", Err: ErrInvalidMajor}
	}
	if err != nil {
		return nil, err
	}

	return &models.Registration{
		FullName:     strings.TrimSpace(in.FullName),
		NISN:         strings.TrimSpace(in.NISN),
		BirthPlace:   strings.TrimSpace(in.BirthPlace),
		BirthDate:    birth,
		Gender:       in.Gender,
		OriginSchool: strings.TrimSpace(in.OriginSchool),
		Phone:        validators.NormalizePhone(in.Phone),
		Email:        email,
		Address:      strings.TrimSpace(in.Address),
		ParentName:   strings.TrimSpace(in.ParentName),
		ParentPhone:  validators.NormalizePhone(in.ParentPhone),
		MajorID:      major.ID,
		Status:       models.RegistrationPending,
		MajorName:    major.Name,
	}, nil
}

func (s *RegistrationService) nextNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", registrationPrefix, s.now().Year())
	n, err := s.repo.CountWithPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("count registrations: %w", err)
	}
	for seq := n + 1; ; seq++ {
		number := fmt.Sprintf("%s%06d", prefix, seq)
		taken, err := s.repo.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
}

func (s *RegistrationService) Get(ctx context.Context, id int64) (*models.Registration, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByNumber backs the public status page.
func (s *RegistrationService) GetByNumber(ctx context.Context, number string) (*models.Registration, error) {
	return s.repo.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
}

// List filters by status when status is non-empty.
func (s *RegistrationService) List(ctx context.Context, status models.RegistrationStatus, page, perPage int) ([]*models.Registration, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if perPage <= 0 {
		perPage = 50
	}
	if page <= 0 {
		page = 1
	}
	return s.repo.List(ctx, status, perPage, (page-1)*perPage)
}

func (s *RegistrationService) Counts(ctx context.Context) (map[models.RegistrationStatus]int, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *RegistrationService) SetStatus(ctx context.Context, id int64, status models.RegistrationStatus, notes string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status, strings.TrimSpace(notes))
}

var exportHeader = []interface{}{
	"No. Pendaftaran", "Nama Lengkap", "NISN", "Tempat Lahir", "Tanggal Lahir", "L/P",
	"Asal Sekolah", "Telepon", "Email", "Alamat", "Nama Orang Tua", "Telepon Orang Tua",
	"Jurusan", "Status", "Catatan", "Tanggal Daftar",
}

// ExportXLSX writes every registration with the given status (all when
// empty) as an xlsx workbook.
func (s *RegistrationService) ExportXLSX(ctx context.Context, status models.RegistrationStatus, w io.Writer) error {
	if status != "" && !status.Valid() {
		return ErrInvalidStatus
	}
	regs, err := s.repo.List(ctx, status, 0, 0)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		f.SetRowStyle(exportSheet, 1, 1, style)
	}

	for i, r := range regs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.RegistrationNo, r.FullName, r.NISN, r.BirthPlace, r.BirthDate.Format("2006-01-02"), r.Gender,
			r.OriginSchool, r.Phone, r.Email, r.Address, r.ParentName, r.ParentPhone,
			r.MajorName, r.Status.Label(), r.Notes, r.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(exportSheet, "A", "A", 20)
	f.SetColWidth(exportSheet, "B", "B", 30)

	return f.Write(w)
}
