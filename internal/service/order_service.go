package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"medifinder/internal/config"
	"medifinder/internal/entity"
	"medifinder/internal/match"
	"medifinder/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderService is a service that provides order-related operations
type OrderService struct {
	orderRepo   repository.OrderRepository
	stockRepo   repository.StockRepository
	kafkaWriter *kafka.Writer
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository, stockRepo repository.StockRepository, kafkaWriter *kafka.Writer) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		stockRepo:   stockRepo,
		kafkaWriter: kafkaWriter,
	}
}

// OrderItemRequest is one requested line item: an opaque display id and/or a
// display name, plus the requested quantity.
type OrderItemRequest struct {
	MedicineID string `json:"medicineId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

type CreateOrderRequest struct {
	PharmacyID       string             `json:"pharmacyId"`
	Items            []OrderItemRequest `json:"items"`
	Delivery         bool               `json:"delivery"`
	DeliveryAddress  string             `json:"deliveryAddress"`
	PrescriptionFile string             `json:"prescriptionFile"`

	// Customer snapshot, filled from the authenticated caller's claims.
	CustomerName  string `json:"-"`
	CustomerEmail string `json:"-"`
	CustomerPhone string `json:"-"`
}

// CreateOrder resolves every requested item against the pharmacy's stock,
// prices the order, and persists it with its line items atomically. Any
// single item failure aborts the whole order.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*entity.Order, error) {
	if req.PharmacyID == "" || len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: Pharmacy ID and items are required", ErrValidation)
	}

	stock, err := s.stockRepo.GetByPharmacy(ctx, req.PharmacyID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error loading stock for pharmacy %s", req.PharmacyID)
		return nil, err
	}

	var (
		totalRWF             int
		items                []entity.OrderItem
		requiresPrescription bool
	)
	for _, item := range req.Items {
		resolved := match.Resolve(match.ItemQuery{ID: item.MedicineID, Name: item.Name}, stock)
		if resolved == nil {
			s.logUnresolvedItem(item, stock, req.PharmacyID)
			return nil, fmt.Errorf("%w: Medicine %q not found in pharmacy stock. Please verify the medicine is available at this pharmacy.",
				ErrItemNotFound, item.Name)
		}

		if resolved.Quantity < item.Quantity {
			return nil, fmt.Errorf("%w: Only %d available for %s", ErrInsufficientStock, resolved.Quantity, item.Name)
		}

		totalRWF += resolved.PriceRWF * item.Quantity
		if resolved.RequiresPrescription {
			requiresPrescription = true
		}
		items = append(items, entity.OrderItem{
			MedicineID: resolved.MedicineID,
			Quantity:   item.Quantity,
			PriceRWF:   resolved.PriceRWF,
		})
	}

	// Whenever a prescription medicine is in the order the prescription
	// review starts at pending, whether or not a file came with the request.
	var prescriptionStatus *string
	if requiresPrescription {
		pending := entity.PrescriptionPending
		prescriptionStatus = &pending
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:                 newOrderID(),
		PharmacyID:         req.PharmacyID,
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		CustomerPhone:      req.CustomerPhone,
		TotalRWF:           totalRWF,
		Status:             entity.OrderStatusPending,
		PrescriptionStatus: prescriptionStatus,
		PrescriptionFile:   req.PrescriptionFile,
		Delivery:           req.Delivery,
		DeliveryAddress:    req.DeliveryAddress,
		CreatedAt:          now,
		UpdatedAt:          now,
		Items:              items,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	// if env is set to test, return
	if config.IsTestEnv() {
		return order, nil
	}
	if err := s.publishOrderEvent(ctx, order, "created"); err != nil {
		logger.Error().Err(err).Msgf("Error publishing created event for order %s", order.ID)
	}

	return order, nil
}

// logUnresolvedItem dumps the names actually in stock for diagnostics. Best
// effort only; it never fails the request.
func (s *OrderService) logUnresolvedItem(item OrderItemRequest, stock []entity.StockEntry, pharmacyID string) {
	available := make([]string, 0, len(stock))
	for _, entry := range stock {
		name := entry.Name
		if entry.Strength != "" {
			name += " " + entry.Strength
		}
		available = append(available, name)
	}
	logger.Error().
		Str("searched", item.Name).
		Str("medicineId", item.MedicineID).
		Str("pharmacyId", pharmacyID).
		Strs("available", available).
		Msg("Medicine not found")
}

// GetCustomerOrders returns the customer's order history across pharmacies.
func (s *OrderService) GetCustomerOrders(ctx context.Context, email string) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetByCustomerEmail(ctx, email)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting orders for %s", email)
		return nil, err
	}
	return orders, nil
}

// GetPharmacyOrders returns the pharmacy's orders, optionally filtered by
// status, newest first.
func (s *OrderService) GetPharmacyOrders(ctx context.Context, pharmacyID, status string) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetByPharmacy(ctx, pharmacyID, status)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting orders for pharmacy %s", pharmacyID)
		return nil, err
	}
	return orders, nil
}

// GetOrderDetails returns one order scoped to its owning pharmacy.
func (s *OrderService) GetOrderDetails(ctx context.Context, pharmacyID, orderID string) (*entity.Order, error) {
	order, err := s.orderRepo.GetDetails(ctx, pharmacyID, orderID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: Order not found", ErrNotFound)
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting order %s", orderID)
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus sets the order's lifecycle status and returns the
// pharmacy's full current order list. An order owned by another pharmacy is
// reported as not found, never as forbidden.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, pharmacyID, orderID, status string) ([]entity.Order, error) {
	owned, err := s.orderRepo.BelongsToPharmacy(ctx, pharmacyID, orderID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, fmt.Errorf("%w: Order not found", ErrNotFound)
	}

	if err := s.orderRepo.UpdateStatus(ctx, pharmacyID, orderID, status, time.Now().UTC()); err != nil {
		logger.Error().Err(err).Msgf("Error updating status for order %s", orderID)
		return nil, err
	}

	s.publishStatusEvent(ctx, pharmacyID, orderID, "status", status)
	return s.GetPharmacyOrders(ctx, pharmacyID, "")
}

// UpdatePrescriptionStatus sets the prescription review status with the same
// ownership contract as UpdateOrderStatus.
func (s *OrderService) UpdatePrescriptionStatus(ctx context.Context, pharmacyID, orderID, prescriptionStatus string) ([]entity.Order, error) {
	owned, err := s.orderRepo.BelongsToPharmacy(ctx, pharmacyID, orderID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, fmt.Errorf("%w: Order not found", ErrNotFound)
	}

	if err := s.orderRepo.UpdatePrescriptionStatus(ctx, pharmacyID, orderID, prescriptionStatus, time.Now().UTC()); err != nil {
		logger.Error().Err(err).Msgf("Error updating prescription status for order %s", orderID)
		return nil, err
	}

	s.publishStatusEvent(ctx, pharmacyID, orderID, "prescription", prescriptionStatus)
	return s.GetPharmacyOrders(ctx, pharmacyID, "")
}

func (s *OrderService) publishStatusEvent(ctx context.Context, pharmacyID, orderID, eventType, status string) {
	if config.IsTestEnv() {
		return
	}
	order := &entity.Order{ID: orderID, PharmacyID: pharmacyID, Status: status}
	if err := s.publishOrderEvent(ctx, order, eventType); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s event for order %s", eventType, orderID)
	}
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, eventType string) error {
	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	// order.created.ORD-... or order.status.ORD-...
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%s", eventType, order.ID)),
		Value: orderJSON,
	}
	return s.kafkaWriter.WriteMessages(ctx, msg)
}

// newOrderID is unique enough across concurrent creations without a global
// sequence.
func newOrderID() string {
	return fmt.Sprintf("ORD-%d-%09d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
}
