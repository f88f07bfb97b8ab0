// Package orders owns the authoritative checkout path. Totals are always
// recomputed here from the submitted line items; figures the client worked
// out for display are never persisted.
package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/models"
	"github.com/monbijou/storefront/internal/pricing"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

type Service struct {
	DB *gorm.DB
}

type OrderItemInput struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  uint    `json:"quantity"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	IsForHire bool    `json:"is_for_hire,omitempty"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput        `json:"items"`
	ShippingAddress *models.ShippingAddress `json:"shipping_address,omitempty"`
	GuestName       string                  `json:"guest_name,omitempty"`
	GuestEmail      string                  `json:"guest_email,omitempty"`
	GuestPhone      string                  `json:"guest_phone,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	RentalStartDate *time.Time              `json:"rental_start_date,omitempty"`
	RentalEndDate   *time.Time              `json:"rental_end_date,omitempty"`
}

func validateItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	for i := range items {
		if items[i].ProductID == 0 {
			return fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if items[i].Quantity == 0 {
			return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if items[i].Price < 0 {
			return fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
	}
	return nil
}

// CreateOrder validates the submitted items, recomputes every total and
// persists the order as a single self-contained record with pending
// status. userID is nil for guest checkout, which then requires contact
// fields.
func (svc *Service) CreateOrder(ctx context.Context, in CreateOrderInput, userID *uint) (*models.Order, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}
	if userID == nil && (in.GuestName == "" || in.GuestEmail == "") {
		return nil, fmt.Errorf("%w: guest name and email required for guest checkout", ErrValidation)
	}

	rentalDays := pricing.RentalDays(in.RentalStartDate, in.RentalEndDate)

	var subtotal float64
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		subtotal += pricing.LineTotal(it.Price, it.Quantity, it.IsForHire, rentalDays)
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Color:     it.Color,
			Size:      it.Size,
			IsForHire: it.IsForHire,
		})
	}
	subtotal = pricing.Round2(subtotal)
	tax, shipping, total := pricing.Totals(subtotal)

	order := &models.Order{
		OrderNumber:     pricing.OrderNumber(time.Now()),
		UserID:          userID,
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		GuestPhone:      in.GuestPhone,
		Items:           items,
		RentalStartDate: in.RentalStartDate,
		RentalEndDate:   in.RentalEndDate,
		Subtotal:        subtotal,
		Tax:             tax,
		ShippingCost:    shipping,
		Total:           total,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
	}

	if err := svc.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (svc *Service) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := svc.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns all orders, newest first, optionally filtered by status.
func (svc *Service) ListOrders(ctx context.Context, status models.OrderStatus, limit int) ([]models.Order, error) {
	q := svc.DB.WithContext(ctx).Model(&models.Order{}).Order("created_at DESC")
	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (svc *Service) UserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := svc.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus advances the fulfilment state machine. Only forward steps and
// the cancelled/refunded escapes are legal.
func (svc *Service) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := svc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrConflict, order.Status, status)
	}

	order.Status = status
	if err := svc.DB.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// UpdatePaymentStatus records a payment outcome. Marking an order paid while
// it is still pending auto-advances it to confirmed.
func (svc *Service) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus, paymentID string) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrValidation, status)
	}

	order, err := svc.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.PaymentStatus.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: cannot move payment from %s to %s", ErrConflict, order.PaymentStatus, status)
	}

	order.PaymentStatus = status
	if paymentID != "" {
		order.PaymentID = paymentID
	}
	if status == models.PaymentPaid && order.Status == models.OrderPending {
		order.Status = models.OrderConfirmed
	}

	if err := svc.DB.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

type OrderStats struct {
	TotalOrders      int64          `json:"total_orders"`
	PendingOrders    int64          `json:"pending_orders"`
	ProcessingOrders int64          `json:"processing_orders"`
	CompletedOrders  int64          `json:"completed_orders"`
	TotalRevenue     float64        `json:"total_revenue"`
	RecentOrders     []models.Order `json:"recent_orders"`
}

func (svc *Service) Stats(ctx context.Context) (*OrderStats, error) {
	db := svc.DB.WithContext(ctx)
	stats := &OrderStats{}

	counts := []struct {
		dst    *int64
		status models.OrderStatus
	}{
		{&stats.PendingOrders, models.OrderPending},
		{&stats.ProcessingOrders, models.OrderProcessing},
		{&stats.CompletedOrders, models.OrderDelivered},
	}

	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		if err := db.Model(&models.Order{}).Where("status = ?", c.status).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	err := db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = db.Order("created_at DESC").Limit(5).Find(&stats.RecentOrders).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
