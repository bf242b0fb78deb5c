package services

import (
	"context"
	"fmt"
	"strings"

	"enscho/internal/models"
	"enscho/internal/repository"
	"enscho/internal/validators"
)

type PartnerInput struct {
	Name        string
	Logo        string
	Website     string
	Description string
}

type PartnerService struct {
	repo *repository.PartnerRepository
}

func NewPartnerService(repo *repository.PartnerRepository) *PartnerService {
	return &PartnerService{repo: repo}
}

func (s *PartnerService) Get(ctx context.Context, id int64) (*models.Partner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PartnerService) List(ctx context.Context) ([]*models.Partner, error) {
	return s.repo.List(ctx)
}

func (s *PartnerService) Create(ctx context.Context, in PartnerInput) (*models.Partner, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	partner := &models.Partner{}
	in.apply(partner)
	if err := s.repo.Create(ctx, partner); err != nil {
		return nil, fmt.Errorf("create partner: %w", err)
	}
	return partner, nil
}

func (s *PartnerService) Update(ctx context.Context, id int64, in PartnerInput) (*models.Partner, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	partner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(partner)
	if err := s.repo.Update(ctx, partner); err != nil {
		return nil, fmt.Errorf("update partner: %w", err)
	}
	return partner, nil
}

func (s *PartnerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (in PartnerInput) validate() error {
	if err := validators.Required(in.Name, 150); err != nil {
		return fmt.Errorf("name: %w", err)
	}
	return validators.ValidateWebsite(strings.TrimSpace(in.Website))
}

func (in PartnerInput) apply(p *models.Partner) {
	p.Name = strings.TrimSpace(in.Name)
	p.Website = strings.TrimSpace(in.Website)
	p.Description = in.Description
	if in.Logo != "" {
		p.Logo = in.Logo
	}
}
