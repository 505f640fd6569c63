package service

import (
	"context"
	"fmt"

	"medifinder/internal/entity"
	"medifinder/internal/repository"
)

// InsuranceService manages a pharmacy's accepted insurance partners.
type InsuranceService struct {
	insuranceRepo repository.InsuranceRepository
}

// NewInsuranceService creates a new instance of InsuranceService.
func NewInsuranceService(insuranceRepo repository.InsuranceRepository) *InsuranceService {
	return &InsuranceService{insuranceRepo: insuranceRepo}
}

func (s *InsuranceService) GetPartners(ctx context.Context, pharmacyID string) ([]entity.InsuranceType, error) {
	partners, err := s.insuranceRepo.GetPartners(ctx, pharmacyID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting insurance partners for pharmacy %s", pharmacyID)
		return nil, err
	}
	return partners, nil
}

func (s *InsuranceService) GetAllTypes(ctx context.Context) ([]entity.InsuranceType, error) {
	types, err := s.insuranceRepo.GetAllTypes(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting insurance types")
		return nil, err
	}
	return types, nil
}

// AddPartner links an insurance type to the pharmacy and returns the full
// current partner list. An existing link is a conflict.
func (s *InsuranceService) AddPartner(ctx context.Context, pharmacyID string, insuranceID int) ([]entity.InsuranceType, error) {
	exists, err := s.insuranceRepo.LinkExists(ctx, pharmacyID, insuranceID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: Insurance partner already added", ErrConflict)
	}

	if err := s.insuranceRepo.AddLink(ctx, pharmacyID, insuranceID); err != nil {
		logger.Error().Err(err).Msgf("Error adding insurance partner for pharmacy %s", pharmacyID)
		return nil, err
	}
	return s.GetPartners(ctx, pharmacyID)
}

// RemovePartner unlinks an insurance type and returns the full current
// partner list. A missing link is not found.
func (s *InsuranceService) RemovePartner(ctx context.Context, pharmacyID string, insuranceID int) ([]entity.InsuranceType, error) {
	exists, err := s.insuranceRepo.LinkExists(ctx, pharmacyID, insuranceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: Insurance partner not found", ErrNotFound)
	}

	if err := s.insuranceRepo.RemoveLink(ctx, pharmacyID, insuranceID); err != nil {
		logger.Error().Err(err).Msgf("Error removing insurance partner for pharmacy %s", pharmacyID)
		return nil, err
	}
	return s.GetPartners(ctx, pharmacyID)
}
