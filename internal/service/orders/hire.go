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

type HireItemInput struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  uint    `json:"quantity"`
	HirePrice float64 `json:"hire_price"`
}

type CreateHireRequestInput struct {
	Items        []HireItemInput `json:"items"`
	EventDate    string          `json:"event_date"`
	EventEndDate string          `json:"event_end_date,omitempty"`
	EventType    string          `json:"event_type,omitempty"`
	Venue        string          `json:"venue,omitempty"`
	Message      string          `json:"message,omitempty"`
	GuestName    string          `json:"guest_name,omitempty"`
	GuestEmail   string          `json:"guest_email,omitempty"`
	GuestPhone   string          `json:"guest_phone,omitempty"`
}

// CreateHireRequest persists a quote request. The estimated total is
// hirePrice times quantity with no day multiplication: the rental span is
// set per event during manual quoting, so the stored figure is a ceiling
// estimate, not the authoritative price.
func (svc *Service) CreateHireRequest(ctx context.Context, in CreateHireRequestInput, userID *uint) (*models.HireRequest, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}
	if in.EventDate == "" {
		return nil, fmt.Errorf("%w: event_date required", ErrValidation)
	}
	if userID == nil && (in.GuestName == "" || in.GuestEmail == "") {
		return nil, fmt.Errorf("%w: guest name and email required", ErrValidation)
	}

	var estimated float64
	items := make([]models.HireItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if it.Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if it.HirePrice < 0 {
			return nil, fmt.Errorf("%w: hire price must be >= 0", ErrValidation)
		}
		estimated += it.HirePrice * float64(it.Quantity)
		items = append(items, models.HireItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			HirePrice: it.HirePrice,
		})
	}

	req := &models.HireRequest{
		UserID:         userID,
		GuestName:      in.GuestName,
		GuestEmail:     in.GuestEmail,
		GuestPhone:     in.GuestPhone,
		Items:          items,
		EventDate:      in.EventDate,
		EventEndDate:   in.EventEndDate,
		EventType:      in.EventType,
		Venue:          in.Venue,
		Message:        in.Message,
		EstimatedTotal: pricing.Round2(estimated),
		Status:         models.HirePending,
	}

	if err := svc.DB.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (svc *Service) GetHireRequest(ctx context.Context, id uint) (*models.HireRequest, error) {
	var req models.HireRequest
	if err := svc.DB.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: hire request %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &req, nil
}

func (svc *Service) ListHireRequests(ctx context.Context, status models.HireStatus) ([]models.HireRequest, error) {
	q := svc.DB.WithContext(ctx).Model(&models.HireRequest{}).Order("created_at DESC")
	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		q = q.Where("status = ?", status)
	}

	var reqs []models.HireRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (svc *Service) UserHireRequests(ctx context.Context, userID uint) ([]models.HireRequest, error) {
	var reqs []models.HireRequest
	err := svc.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

type UpdateHireStatusInput struct {
	Status       models.HireStatus `json:"status"`
	QuotedAmount *float64          `json:"quoted_amount,omitempty"`
	AdminNotes   *string           `json:"admin_notes,omitempty"`
}

// UpdateHireStatus moves a request through pending -> quoted -> confirmed ->
// completed, with cancellation open until completion. The quoted amount is
// the operator-entered authoritative figure.
func (svc *Service) UpdateHireStatus(ctx context.Context, id uint, in UpdateHireStatusInput) (*models.HireRequest, error) {
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	if in.QuotedAmount != nil && *in.QuotedAmount < 0 {
		return nil, fmt.Errorf("%w: quoted amount must be >= 0", ErrValidation)
	}

	req, err := svc.GetHireRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("%w: cannot move hire request from %s to %s", ErrConflict, req.Status, in.Status)
	}

	req.Status = in.Status
	if in.QuotedAmount != nil {
		req.QuotedAmount = *in.QuotedAmount
	}
	if in.AdminNotes != nil {
		req.AdminNotes = *in.AdminNotes
	}

	if err := svc.DB.WithContext(ctx).Save(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// MarkDepositPaid flips the deposit flag and forces the request to
// confirmed. It is only legal on a quoted request, so paying the deposit
// twice is a conflict.
func (svc *Service) MarkDepositPaid(ctx context.Context, id uint) (*models.HireRequest, error) {
	req, err := svc.GetHireRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DepositPaid {
		return nil, fmt.Errorf("%w: deposit already paid", ErrConflict)
	}
	if req.Status != models.HireQuoted {
		return nil, fmt.Errorf("%w: deposit requires a quoted request, current status %s", ErrConflict, req.Status)
	}

	req.DepositPaid = true
	req.Status = models.HireConfirmed
	if err := svc.DB.WithContext(ctx).Save(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

type HireStats struct {
	TotalRequests     int64                `json:"total_requests"`
	PendingRequests   int64                `json:"pending_requests"`
	QuotedRequests    int64                `json:"quoted_requests"`
	ConfirmedRequests int64                `json:"confirmed_requests"`
	CompletedRequests int64                `json:"completed_requests"`
	UpcomingEvents    []models.HireRequest `json:"upcoming_events"`
}

func (svc *Service) HireRequestStats(ctx context.Context) (*HireStats, error) {
	db := svc.DB.WithContext(ctx)
	stats := &HireStats{}

	counts := []struct {
		dst    *int64
		status models.HireStatus
	}{
		{&stats.PendingRequests, models.HirePending},
		{&stats.QuotedRequests, models.HireQuoted},
		{&stats.ConfirmedRequests, models.HireConfirmed},
		{&stats.CompletedRequests, models.HireCompleted},
	}

	if err := db.Model(&models.HireRequest{}).Count(&stats.TotalRequests).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		if err := db.Model(&models.HireRequest{}).Where("status = ?", c.status).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	// Event dates are stored as ISO yyyy-mm-dd strings, so lexical order is
	// date order.
	today := time.Now().Format("2006-01-02")
	err := db.Where("status = ? AND event_date >= ?", models.HireConfirmed, today).
		Order("event_date ASC").
		Limit(5).
		Find(&stats.UpcomingEvents).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
