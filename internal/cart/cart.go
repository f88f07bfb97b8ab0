// Package cart holds the buyer's tentative selections before checkout.
// The aggregate itself is a plain line list; persistence is behind the Store
// interface so handlers run against redis in production and an in-memory map
// in tests.
package cart

import (
	"context"

	"github.com/monbijou/storefront/internal/pricing"
)

// Line is one product selection. UnitPrice is captured at add time: the sale
// price for regular items, the per-day hire price for hire items.
type Line struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Image     string  `json:"image,omitempty"`
	Quantity  uint    `json:"quantity"`
	IsForHire bool    `json:"is_for_hire"`
}

type Store interface {
	GetAll(ctx context.Context, cartID string) ([]Line, error)
	AddItem(ctx context.Context, cartID string, line Line) ([]Line, error)
	RemoveItem(ctx context.Context, cartID string, productID uint) ([]Line, error)
	Clear(ctx context.Context, cartID string) error
}

// addLine merges a selection into the line list: an existing line for the
// same product gains quantity, otherwise the line is appended.
func addLine(lines []Line, line Line) []Line {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i].Quantity += line.Quantity
			return lines
		}
	}
	return append(lines, line)
}

// removeLine drops the line for productID; absent lines are a no-op.
func removeLine(lines []Line, productID uint) []Line {
	out := lines[:0]
	for _, l := range lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}

// Total sums the cart, billing hire lines per rental day. The day count is
// supplied by the caller; the cart holds no date state.
func Total(lines []Line, rentalDays int) float64 {
	var total float64
	for _, l := range lines {
		total += pricing.LineTotal(l.UnitPrice, l.Quantity, l.IsForHire, rentalDays)
	}
	return total
}
