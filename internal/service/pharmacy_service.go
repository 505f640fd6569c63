package service

import (
	"context"
	"database/sql"
	"fmt"

	"medifinder/internal/entity"
	"medifinder/internal/repository"
)

// PharmacyService serves the customer-facing discovery flow: search,
// detail, and the signup linking list.
type PharmacyService struct {
	pharmacyRepo  repository.PharmacyRepository
	insuranceRepo repository.InsuranceRepository
	stockRepo     repository.StockRepository
}

// NewPharmacyService creates a new instance of PharmacyService.
func NewPharmacyService(pharmacyRepo repository.PharmacyRepository, insuranceRepo repository.InsuranceRepository, stockRepo repository.StockRepository) *PharmacyService {
	return &PharmacyService{
		pharmacyRepo:  pharmacyRepo,
		insuranceRepo: insuranceRepo,
		stockRepo:     stockRepo,
	}
}

// Search filters pharmacies by stocked medicine name, sector, and accepted
// insurance. Each result carries its accepted insurance names and stock
// listing for the result cards.
func (s *PharmacyService) Search(ctx context.Context, filter repository.SearchFilter) ([]entity.Pharmacy, error) {
	pharmacies, err := s.pharmacyRepo.Search(ctx, filter)
	if err != nil {
		logger.Error().Err(err).Msg("Error searching pharmacies")
		return nil, err
	}
	for i := range pharmacies {
		if err := s.attachAccepts(ctx, &pharmacies[i]); err != nil {
			return nil, err
		}
		stocks, err := s.stockRepo.GetByPharmacy(ctx, pharmacies[i].ID)
		if err != nil {
			return nil, err
		}
		pharmacies[i].Stocks = stocks
	}
	return pharmacies, nil
}

// GetByID returns one pharmacy with its accepted insurance names and full
// stock listing for the detail page.
func (s *PharmacyService) GetByID(ctx context.Context, id string) (*entity.Pharmacy, error) {
	pharmacy, err := s.pharmacyRepo.GetByID(ctx, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: Pharmacy not found", ErrNotFound)
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting pharmacy %s", id)
		return nil, err
	}

	if err := s.attachAccepts(ctx, pharmacy); err != nil {
		return nil, err
	}
	stocks, err := s.stockRepo.GetByPharmacy(ctx, id)
	if err != nil {
		return nil, err
	}
	pharmacy.Stocks = stocks
	return pharmacy, nil
}

// ListAll returns the short pharmacy listing for signup linking.
func (s *PharmacyService) ListAll(ctx context.Context) ([]entity.PharmacySummary, error) {
	summaries, err := s.pharmacyRepo.ListAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting pharmacies list")
		return nil, err
	}
	return summaries, nil
}

func (s *PharmacyService) attachAccepts(ctx context.Context, p *entity.Pharmacy) error {
	partners, err := s.insuranceRepo.GetPartners(ctx, p.ID)
	if err != nil {
		return err
	}
	for _, partner := range partners {
		p.Accepts = append(p.Accepts, partner.Name)
	}
	return nil
}
