package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"medifinder/internal/config"
	"medifinder/internal/entity"
	"medifinder/internal/repository"
)

// StockService manages a pharmacy's stock rows, scoped to the pharmacy
// performing the operation. Listings are cached in Redis; mutations
// invalidate the cache and return the re-queried listing.
type StockService struct {
	stockRepo    repository.StockRepository
	medicineRepo repository.MedicineRepository
	rdb          *redis.Client
}

// NewStockService creates a new instance of StockService.
func NewStockService(stockRepo repository.StockRepository, medicineRepo repository.MedicineRepository, rdb *redis.Client) *StockService {
	return &StockService{
		stockRepo:    stockRepo,
		medicineRepo: medicineRepo,
		rdb:          rdb,
	}
}

// GetStock retrieves the pharmacy's full stock listing, cache-aside.
func (s *StockService) GetStock(ctx context.Context, pharmacyID string) ([]entity.StockEntry, error) {
	key := stockCacheKey(pharmacyID)
	if s.cacheEnabled() {
		cached, err := s.rdb.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting stock for pharmacy %s from cache", pharmacyID)
		}
		if cached != "" {
			var stock []entity.StockEntry
			if err := json.Unmarshal([]byte(cached), &stock); err == nil {
				return stock, nil
			} else {
				logger.Error().Err(err).Msgf("Error unmarshalling cached stock for pharmacy %s", pharmacyID)
			}
		}
	}

	stock, err := s.stockRepo.GetByPharmacy(ctx, pharmacyID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting stock for pharmacy %s", pharmacyID)
		return nil, err
	}

	if s.cacheEnabled() {
		if payload, err := json.Marshal(stock); err == nil {
			if err := s.rdb.Set(ctx, key, payload, 1*time.Minute).Err(); err != nil {
				logger.Error().Err(err).Msgf("Error caching stock for pharmacy %s", pharmacyID)
			}
		}
	}
	return stock, nil
}

// AddStock creates a stock row for a medicine the pharmacy does not carry
// yet. An existing row is a conflict, never an upsert.
func (s *StockService) AddStock(ctx context.Context, pharmacyID string, medicineID, quantity, priceRWF int) ([]entity.StockEntry, error) {
	if _, err := s.medicineRepo.GetByID(ctx, medicineID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: Medicine not found", ErrNotFound)
		}
		return nil, err
	}

	exists, err := s.stockRepo.Exists(ctx, pharmacyID, medicineID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: Stock already exists for this medicine", ErrConflict)
	}

	if err := s.stockRepo.Add(ctx, pharmacyID, medicineID, quantity, priceRWF); err != nil {
		logger.Error().Err(err).Msgf("Error adding stock for pharmacy %s", pharmacyID)
		return nil, err
	}
	return s.refresh(ctx, pharmacyID)
}

func (s *StockService) UpdateStock(ctx context.Context, pharmacyID string, medicineID, quantity, priceRWF int) ([]entity.StockEntry, error) {
	exists, err := s.stockRepo.Exists(ctx, pharmacyID, medicineID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: Stock not found", ErrNotFound)
	}

	if err := s.stockRepo.Update(ctx, pharmacyID, medicineID, quantity, priceRWF); err != nil {
		logger.Error().Err(err).Msgf("Error updating stock for pharmacy %s", pharmacyID)
		return nil, err
	}
	return s.refresh(ctx, pharmacyID)
}

func (s *StockService) DeleteStock(ctx context.Context, pharmacyID string, medicineID int) ([]entity.StockEntry, error) {
	exists, err := s.stockRepo.Exists(ctx, pharmacyID, medicineID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: Stock not found", ErrNotFound)
	}

	if err := s.stockRepo.Delete(ctx, pharmacyID, medicineID); err != nil {
		logger.Error().Err(err).Msgf("Error deleting stock for pharmacy %s", pharmacyID)
		return nil, err
	}
	return s.refresh(ctx, pharmacyID)
}

// GetAllMedicines returns the medicine catalog for the add-stock picker.
func (s *StockService) GetAllMedicines(ctx context.Context) ([]entity.Medicine, error) {
	medicines, err := s.medicineRepo.GetAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting medicines")
		return nil, err
	}
	return medicines, nil
}

// CreateMedicine adds a medicine the catalog is missing so the pharmacy can
// stock it. (name, strength) pairs stay unique.
func (s *StockService) CreateMedicine(ctx context.Context, name, strength string, requiresPrescription bool) (*entity.Medicine, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: Medicine name is required", ErrValidation)
	}

	existing, err := s.medicineRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range existing {
		if strings.EqualFold(m.Name, name) && strings.EqualFold(m.Strength, strength) {
			return nil, fmt.Errorf("%w: Medicine already exists", ErrConflict)
		}
	}

	medicine := &entity.Medicine{Name: name, Strength: strength, RequiresPrescription: requiresPrescription}
	created, err := s.medicineRepo.Create(ctx, medicine)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating medicine %q", name)
		return nil, err
	}
	return created, nil
}

// refresh drops the cached listing and re-queries, so every mutation returns
// read-your-writes state.
func (s *StockService) refresh(ctx context.Context, pharmacyID string) ([]entity.StockEntry, error) {
	if s.cacheEnabled() {
		if err := s.rdb.Del(ctx, stockCacheKey(pharmacyID)).Err(); err != nil {
			logger.Error().Err(err).Msgf("Error invalidating stock cache for pharmacy %s", pharmacyID)
		}
	}
	return s.GetStock(ctx, pharmacyID)
}

func (s *StockService) cacheEnabled() bool {
	return s.rdb != nil && !config.IsTestEnv()
}

func stockCacheKey(pharmacyID string) string {
	return fmt.Sprintf("stock:%s", pharmacyID)
}
