package models

import (
	"time"
)

type ProductCategory string

const (
	CategoryJewelry ProductCategory = "jewelry"
	CategoryDecor   ProductCategory = "decor"
)

type ProductColor struct {
	Name    string `json:"name"`
	HexCode string `json:"hex_code,omitempty"`
}

type ProductSize struct {
	Name          string  `json:"name"`
	Dimensions    string  `json:"dimensions,omitempty"`
	PriceModifier float64 `json:"price_modifier,omitempty"`
}

type Product struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name            string          `gorm:"not null"                  json:"name"`
	Slug            string          `gorm:"uniqueIndex;not null"      json:"slug"`
	Description     string          `gorm:"not null"                  json:"description"`
	Price           float64         `gorm:"not null"                  json:"price"`
	CompareAtPrice  float64         `json:"compare_at_price,omitempty"`
	Category        ProductCategory `gorm:"index;not null"            json:"category"`
	JewelryType     string          `gorm:"index"                     json:"jewelry_type,omitempty"`
	DecorType       string          `gorm:"index"                     json:"decor_type,omitempty"`
	Colors          []ProductColor  `gorm:"serializer:json"           json:"colors,omitempty"`
	Sizes           []ProductSize   `gorm:"serializer:json"           json:"sizes,omitempty"`
	Materials       []string        `gorm:"serializer:json"           json:"materials,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	StockQuantity   uint            `json:"stock_quantity"`
	SKU             string          `json:"sku,omitempty"`
	IsForHire       bool            `gorm:"index"                     json:"is_for_hire"`
	HirePrice       float64         `json:"hire_price,omitempty"`
	MinimumHireDays uint            `json:"minimum_hire_days,omitempty"`
	DepositAmount   float64         `json:"deposit_amount,omitempty"`
	IsActive        bool            `gorm:"index;default:true"        json:"is_active"`
	IsFeatured      bool            `gorm:"index"                     json:"is_featured"`
	IsNew           bool            `json:"is_new"`
	IsOnSale        bool            `json:"is_on_sale"`
	SaleEndDate     *time.Time      `json:"sale_end_date,omitempty"`
	Rating          float64         `json:"rating"`
	ReviewCount     uint            `json:"review_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type Category struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"not null"                 json:"name"`
	Slug         string          `gorm:"uniqueIndex;not null"     json:"slug"`
	Description  string          `json:"description,omitempty"`
	ImageURL     string          `json:"image_url,omitempty"`
	Type         ProductCategory `gorm:"index;not null"           json:"type"`
	DisplayOrder int             `json:"display_order"`
	IsActive     bool            `gorm:"default:true"             json:"is_active"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Email        string `gorm:"uniqueIndex;not null"      json:"email"`
	Name         string `gorm:"not null"                  json:"name"`
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Role         string `gorm:"not null;default:customer" json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// orderFlow is the forward fulfilment chain; cancelled and refunded are
// reachable from every non-terminal state.
var orderFlow = map[OrderStatus]OrderStatus{
	OrderPending:    OrderConfirmed,
	OrderConfirmed:  OrderProcessing,
	OrderProcessing: OrderShipped,
	OrderShipped:    OrderDelivered,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
		OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderCancelled || next == OrderRefunded {
		return s != OrderCancelled && s != OrderRefunded
	}
	return orderFlow[s] == next
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return next == PaymentPaid || next == PaymentFailed
	case PaymentPaid:
		return next == PaymentRefunded
	}
	return false
}

// OrderItem is a snapshot of the product at checkout time, stored inside the
// order record itself rather than in a separate table.
type OrderItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  uint    `json:"quantity"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	IsForHire bool    `json:"is_for_hire,omitempty"`
}

type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Order struct {
	ID              uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber     string           `gorm:"uniqueIndex;not null"     json:"order_number"`
	UserID          *uint            `gorm:"index"                    json:"user_id,omitempty"`
	GuestName       string           `json:"guest_name,omitempty"`
	GuestEmail      string           `json:"guest_email,omitempty"`
	GuestPhone      string           `json:"guest_phone,omitempty"`
	Items           []OrderItem      `gorm:"serializer:json;not null" json:"items"`
	RentalStartDate *time.Time       `json:"rental_start_date,omitempty"`
	RentalEndDate   *time.Time       `json:"rental_end_date,omitempty"`
	Subtotal        float64          `gorm:"not null"                 json:"subtotal"`
	Tax             float64          `json:"tax"`
	ShippingCost    float64          `json:"shipping_cost"`
	Discount        float64          `json:"discount"`
	Total           float64          `gorm:"not null"                 json:"total"`
	Status          OrderStatus      `gorm:"index;not null"           json:"status"`
	PaymentStatus   PaymentStatus    `gorm:"not null"                 json:"payment_status"`
	PaymentMethod   string           `json:"payment_method,omitempty"`
	PaymentID       string           `json:"payment_id,omitempty"`
	ShippingAddress *ShippingAddress `gorm:"serializer:json"          json:"shipping_address,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type HireStatus string

const (
	HirePending   HireStatus = "pending"
	HireQuoted    HireStatus = "quoted"
	HireConfirmed HireStatus = "confirmed"
	HireCompleted HireStatus = "completed"
	HireCancelled HireStatus = "cancelled"
)

var hireFlow = map[HireStatus]HireStatus{
	HirePending:   HireQuoted,
	HireQuoted:    HireConfirmed,
	HireConfirmed: HireCompleted,
}

func (s HireStatus) Valid() bool {
	switch s {
	case HirePending, HireQuoted, HireConfirmed, HireCompleted, HireCancelled:
		return true
	}
	return false
}

func (s HireStatus) CanTransitionTo(next HireStatus) bool {
	if next == HireCancelled {
		return s != HireCancelled && s != HireCompleted
	}
	return hireFlow[s] == next
}

// HireItem carries the per-day hire price; the rental span is quoted per
// event, so no day multiplication is baked into the snapshot.
type HireItem struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  uint    `json:"quantity"`
	HirePrice float64 `json:"hire_price"`
}

type HireRequest struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         *uint      `gorm:"index"                    json:"user_id,omitempty"`
	GuestName      string     `json:"guest_name,omitempty"`
	GuestEmail     string     `json:"guest_email,omitempty"`
	GuestPhone     string     `json:"guest_phone,omitempty"`
	Items          []HireItem `gorm:"serializer:json;not null" json:"items"`
	EventDate      string     `gorm:"index;not null"           json:"event_date"`
	EventEndDate   string     `json:"event_end_date,omitempty"`
	EventType      string     `json:"event_type,omitempty"`
	Venue          string     `json:"venue,omitempty"`
	Message        string     `json:"message,omitempty"`
	EstimatedTotal float64    `gorm:"not null"                 json:"estimated_total"`
	Status         HireStatus `gorm:"index;not null"           json:"status"`
	QuotedAmount   float64    `json:"quoted_amount,omitempty"`
	AdminNotes     string     `json:"admin_notes,omitempty"`
	DepositPaid    bool       `gorm:"default:false"            json:"deposit_paid"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Review struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"                            json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_review_user_product"        json:"user_id"`
	ProductID  uint      `gorm:"index;not null;uniqueIndex:idx_review_user_product"  json:"product_id"`
	Rating     int       `gorm:"not null;check:rating BETWEEN 1 AND 5"               json:"rating"`
	Title      string    `json:"title,omitempty"`
	Content    string    `gorm:"not null"                                            json:"content"`
	IsApproved bool      `gorm:"default:true"                                        json:"is_approved"`
	AuthorName string    `gorm:"-"                                                   json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                             json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product"       json:"user_id"`
	ProductID uint      `gorm:"index;not null;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	CreatedAt time.Time `json:"added_at"`
}

type InquiryStatus string

const (
	InquiryNew     InquiryStatus = "new"
	InquiryRead    InquiryStatus = "read"
	InquiryReplied InquiryStatus = "replied"
	InquiryClosed  InquiryStatus = "closed"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryNew, InquiryRead, InquiryReplied, InquiryClosed:
		return true
	}
	return false
}

type Inquiry struct {
	ID         uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uint         `gorm:"index"                    json:"user_id,omitempty"`
	Name       string        `gorm:"not null"                 json:"name"`
	Email      string        `gorm:"not null"                 json:"email"`
	Phone      string        `json:"phone,omitempty"`
	Subject    string        `json:"subject,omitempty"`
	EventType  string        `json:"event_type,omitempty"`
	EventDate  string        `json:"event_date,omitempty"`
	Venue      string        `json:"venue,omitempty"`
	GuestCount uint          `json:"guest_count,omitempty"`
	Message    string        `gorm:"not null"                 json:"message"`
	ProductID  *uint         `json:"product_id,omitempty"`
	Status     InquiryStatus `gorm:"index;not null"           json:"status"`
	AdminReply string        `json:"admin_reply,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}
