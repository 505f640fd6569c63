package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"medifinder/internal/entity"
	"medifinder/internal/repository"
)

func newOrderService(t *testing.T) *OrderService {
	db := newTestDB(t)
	return NewOrderService(*repository.NewOrderRepository(db), *repository.NewStockRepository(db), nil)
}

func TestCreateOrderComputesTotal(t *testing.T) {
	svc := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		PharmacyID:    "ph-001",
		Items:         []OrderItemRequest{{Name: "Paracetamol", Quantity: 5}},
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, 2500, order.TotalRWF)
	require.Equal(t, entity.OrderStatusPending, order.Status)
	require.Nil(t, order.PrescriptionStatus)
	require.Len(t, order.Items, 1)
	require.Equal(t, 500, order.Items[0].PriceRWF)
	withinLastMinute(t, order.CreatedAt)
}

func TestCreateOrderResolvesByDisplayID(t *testing.T) {
	svc := newOrderService(t)

	order, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		PharmacyID:   "ph-001",
		Items:        []OrderItemRequest{{MedicineID: "med-3", Quantity: 2}},
		CustomerName: "Alice",
	})
	require.NoError(t, err)
	require.Equal(t, 1600, order.TotalRWF)
	require.Equal(t, 3, order.Items[0].MedicineID)
}

func TestCreateOrderFuzzyName(t *testing.T) {
	svc := newOrderService(t)

	order, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		PharmacyID:   "ph-001",
		Items:        []OrderItemRequest{{Name: "Glucose 5% w/v", Quantity: 1}},
		CustomerName: "Alice",
	})
	require.NoError(t, err)
	require.Equal(t, 800, order.TotalRWF)
}

func TestCreateOrderPrescriptionPending(t *testing.T) {
	svc := newOrderService(t)

	// No prescription file supplied; the review still starts at pending.
	order, err := svc.CreateOrder(context.Background(), &CreateOrderRequest{
		PharmacyID:   "ph-001",
		Items:        []OrderItemRequest{{Name: "Tramadol", Quantity: 1}},
		CustomerName: "Alice",
	})
	require.NoError(t, err)
	require.NotNil(t, order.PrescriptionStatus)
	require.Equal(t, entity.PrescriptionPending, *order.PrescriptionStatus)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	svc := newOrderService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		PharmacyID:   "ph-001",
		Items:        []OrderItemRequest{{Name: "Paracetamol", Quantity: 11}},
		CustomerName: "Alice",
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Contains(t, err.Error(), "Only 10 available")
}

func TestCreateOrderUnknownItemAbortsWholeOrder(t *testing.T) {
	svc := newOrderService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		PharmacyID: "ph-001",
		Items: []OrderItemRequest{
			{Name: "Paracetamol", Quantity: 1},
			{Name: "Ibuprofen", Quantity: 1},
		},
		CustomerName: "Alice",
	})
	require.ErrorIs(t, err, ErrItemNotFound)

	orders, err := svc.GetPharmacyOrders(ctx, "ph-001", "")
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newOrderService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, &CreateOrderRequest{Items: []OrderItemRequest{{Name: "x", Quantity: 1}}})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(ctx, &CreateOrderRequest{PharmacyID: "ph-001"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestGetCustomerOrders(t *testing.T) {
	svc := newOrderService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		PharmacyID:    "ph-001",
		Items:         []OrderItemRequest{{Name: "Paracetamol", Quantity: 2}},
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
	})
	require.NoError(t, err)

	orders, err := svc.GetCustomerOrders(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "Kipharma City Centre", orders[0].PharmacyName)
	require.Equal(t, []string{"Paracetamol 500mg x 2"}, orders[0].ItemSummaries)

	none, err := svc.GetCustomerOrders(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestUpdateOrderStatus(t *testing.T) {
	svc := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		PharmacyID:   "ph-001",
		Items:        []OrderItemRequest{{Name: "Paracetamol", Quantity: 1}},
		CustomerName: "Alice",
	})
	require.NoError(t, err)

	orders, err := svc.UpdateOrderStatus(ctx, "ph-001", order.ID, "processing")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "processing", orders[0].Status)
}

func TestUpdateOrderStatusForeignPharmacy(t *testing.T) {
	svc := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		PharmacyID:   "ph-001",
		Items:        []OrderItemRequest{{Name: "Paracetamol", Quantity: 1}},
		CustomerName: "Alice",
	})
	require.NoError(t, err)

	// Another pharmacy cannot tell a foreign order apart from a missing one.
	_, err = svc.UpdateOrderStatus(ctx, "ph-002", order.ID, "processing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetOrderDetails(ctx, "ph-002", order.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePrescriptionStatus(t *testing.T) {
	svc := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		PharmacyID:   "ph-001",
		Items:        []OrderItemRequest{{Name: "Tramadol", Quantity: 1}},
		CustomerName: "Alice",
	})
	require.NoError(t, err)

	orders, err := svc.UpdatePrescriptionStatus(ctx, "ph-001", order.ID, entity.PrescriptionApproved)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].PrescriptionStatus)
	require.Equal(t, entity.PrescriptionApproved, *orders[0].PrescriptionStatus)
}

func TestGetOrderDetails(t *testing.T) {
	svc := newOrderService(t)
	ctx := context.Background()

	created, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		PharmacyID:   "ph-001",
		Items:        []OrderItemRequest{{Name: "Paracetamol", Quantity: 2}, {Name: "Glucose", Quantity: 1}},
		CustomerName: "Alice",
	})
	require.NoError(t, err)

	order, err := svc.GetOrderDetails(ctx, "ph-001", created.ID)
	require.NoError(t, err)
	require.Equal(t, 1800, order.TotalRWF)
	require.Len(t, order.Items, 2)

	_, err = svc.GetOrderDetails(ctx, "ph-001", "ORD-missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrderDoesNotDecrementStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(*repository.NewOrderRepository(db), *repository.NewStockRepository(db), nil)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, &CreateOrderRequest{
		PharmacyID:   "ph-001",
		Items:        []OrderItemRequest{{Name: "Paracetamol", Quantity: 10}},
		CustomerName: "Alice",
	})
	require.NoError(t, err)

	var quantity int
	require.NoError(t, db.QueryRow(
		`SELECT quantity FROM pharmacy_stocks WHERE pharmacy_id = 'ph-001' AND medicine_id = 1`).Scan(&quantity))
	require.Equal(t, 10, quantity)
}
