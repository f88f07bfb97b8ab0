package orders

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.HireRequest{}))
	return &Service{DB: db}
}

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func uintPtr(v uint) *uint { return &v }

func TestCreateOrderFreeShippingOverThreshold(t *testing.T) {
	svc := newTestService(t)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: 1, Name: "diamante set", Price: 600, Quantity: 2},
		},
	}, uintPtr(1))
	require.NoError(t, err)

	require.Equal(t, 1200.0, order.Subtotal)
	require.Equal(t, 180.0, order.Tax)
	require.Equal(t, 0.0, order.ShippingCost)
	require.Equal(t, 1380.0, order.Total)
	require.Equal(t, models.OrderPending, order.Status)
	require.Equal(t, models.PaymentPending, order.PaymentStatus)
	require.Regexp(t, `^MON-\d{6}-[0-9A-Z]{6}$`, order.OrderNumber)
}

func TestCreateOrderFlatShippingUnderThreshold(t *testing.T) {
	svc := newTestService(t)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: 1, Name: "pearl earrings", Price: 200, Quantity: 2},
		},
	}, uintPtr(1))
	require.NoError(t, err)

	require.Equal(t, 400.0, order.Subtotal)
	require.Equal(t, 60.0, order.Tax)
	require.Equal(t, 150.0, order.ShippingCost)
	require.Equal(t, 610.0, order.Total)
}

func TestCreateOrderHireLinesScaleWithRentalDays(t *testing.T) {
	svc := newTestService(t)

	// three inclusive rental days: hire line is billed per day, the sale
	// line is not
	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: 1, Name: "tiara", Price: 500, Quantity: 2},
			{ProductID: 2, Name: "candle holder", Price: 100, Quantity: 1, IsForHire: true},
		},
		RentalStartDate: ts("2025-06-01"),
		RentalEndDate:   ts("2025-06-03"),
	}, uintPtr(1))
	require.NoError(t, err)

	require.Equal(t, 1300.0, order.Subtotal)
}

func TestCreateOrderWithoutDatesDefaultsToOneDay(t *testing.T) {
	svc := newTestService(t)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: 2, Name: "candle holder", Price: 100, Quantity: 2, IsForHire: true},
		},
	}, uintPtr(1))
	require.NoError(t, err)
	require.Equal(t, 200.0, order.Subtotal)
}

func TestCreateOrderIgnoresClientTotals(t *testing.T) {
	svc := newTestService(t)

	// the request carries only items; totals come out of the service's own
	// arithmetic no matter what the cart showed
	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items: []OrderItemInput{{ProductID: 1, Name: "veil", Price: 350, Quantity: 1}},
	}, uintPtr(7))
	require.NoError(t, err)
	require.Equal(t, 350.0, order.Subtotal)
	require.Equal(t, 552.5, order.Total)
}

func TestCreateOrderGuestCheckout(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items: []OrderItemInput{{ProductID: 1, Name: "veil", Price: 100, Quantity: 1}},
	}, nil)
	require.ErrorIs(t, err, ErrValidation)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items:      []OrderItemInput{{ProductID: 1, Name: "veil", Price: 100, Quantity: 1}},
		GuestName:  "Thandi M",
		GuestEmail: "thandi@example.com",
	}, nil)
	require.NoError(t, err)
	require.Nil(t, order.UserID)
	require.Equal(t, "Thandi M", order.GuestName)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, CreateOrderInput{}, uintPtr(1))
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: 1, Name: "x", Price: 10, Quantity: 0}},
	}, uintPtr(1))
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: 1, Name: "x", Price: -5, Quantity: 1}},
	}, uintPtr(1))
	require.ErrorIs(t, err, ErrValidation)
}

func mustOrder(t *testing.T, svc *Service) *models.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		Items: []OrderItemInput{{ProductID: 1, Name: "veil", Price: 100, Quantity: 1}},
	}, uintPtr(1))
	require.NoError(t, err)
	return order
}

func TestOrderStatusTransitions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	order := mustOrder(t, svc)

	// skipping a step is refused
	_, err := svc.UpdateStatus(ctx, order.ID, models.OrderProcessing)
	require.ErrorIs(t, err, ErrConflict)

	for _, next := range []models.OrderStatus{
		models.OrderConfirmed, models.OrderProcessing, models.OrderShipped, models.OrderDelivered,
	} {
		updated, err := svc.UpdateStatus(ctx, order.ID, next)
		require.NoError(t, err)
		require.Equal(t, next, updated.Status)
	}

	// refunded is reachable after delivery, but is terminal
	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderRefunded)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, order.ID, models.OrderCancelled)
	require.ErrorIs(t, err, ErrConflict)
}

func TestOrderCancelFromAnyState(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	order := mustOrder(t, svc)

	_, err := svc.UpdateStatus(ctx, order.ID, models.OrderCancelled)
	require.NoError(t, err)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpdateStatus(context.Background(), 999, models.OrderConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentPaidAutoConfirmsPendingOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	order := mustOrder(t, svc)

	updated, err := svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentPaid, "pay_123")
	require.NoError(t, err)
	require.Equal(t, models.PaymentPaid, updated.PaymentStatus)
	require.Equal(t, models.OrderConfirmed, updated.Status)
	require.Equal(t, "pay_123", updated.PaymentID)
}

func TestPaymentPaidLeavesAdvancedOrderAlone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	order := mustOrder(t, svc)

	for _, next := range []models.OrderStatus{
		models.OrderConfirmed, models.OrderProcessing, models.OrderShipped,
	} {
		_, err := svc.UpdateStatus(ctx, order.ID, next)
		require.NoError(t, err)
	}

	updated, err := svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentPaid, "")
	require.NoError(t, err)
	require.Equal(t, models.OrderShipped, updated.Status)
}

func TestPaymentStatusTransitions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	order := mustOrder(t, svc)

	_, err := svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentRefunded, "")
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentPaid, "")
	require.NoError(t, err)

	_, err = svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentFailed, "")
	require.ErrorIs(t, err, ErrConflict)

	updated, err := svc.UpdatePaymentStatus(ctx, order.ID, models.PaymentRefunded, "")
	require.NoError(t, err)
	require.Equal(t, models.PaymentRefunded, updated.PaymentStatus)
}

func TestListOrdersByStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := mustOrder(t, svc)
	mustOrder(t, svc)
	_, err := svc.UpdateStatus(ctx, first.ID, models.OrderConfirmed)
	require.NoError(t, err)

	pending, err := svc.ListOrders(ctx, models.OrderPending, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	all, err := svc.ListOrders(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = svc.ListOrders(ctx, "sideways", 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestOrderStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := mustOrder(t, svc)
	mustOrder(t, svc)
	_, err := svc.UpdatePaymentStatus(ctx, a.ID, models.PaymentPaid, "")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalOrders)
	require.Equal(t, int64(1), stats.PendingOrders)
	require.Equal(t, a.Total, stats.TotalRevenue)
	require.Len(t, stats.RecentOrders, 2)
}
