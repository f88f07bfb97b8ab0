// Package pricing owns the money-affecting arithmetic: rental day counts,
// line totals and the VAT/shipping rules applied at checkout. Everything here
// is pure so the checkout service can recompute totals without trusting the
// client.
package pricing

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

const (
	// VATRate is the flat 15% VAT applied to the order subtotal.
	VATRate = 0.15

	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = 1000

	// FlatShippingFee is charged on every order at or under the threshold.
	FlatShippingFee = 150
)

// RentalDays converts a rental period into an inclusive whole-day count.
// A missing boundary means the buyer has not picked dates yet, so pricing
// previews fall back to the one-day minimum. Start and end on the same
// calendar day count as one day, not zero.
func RentalDays(start, end *time.Time) int {
	if start == nil || end == nil {
		return 1
	}
	days := int(math.Ceil(end.Sub(*start).Hours()/24)) + 1
	if days < 1 {
		return 1
	}
	return days
}

// LineTotal prices one order line. Hire lines are billed per day, sale lines
// ignore the day count entirely.
func LineTotal(unitPrice float64, quantity uint, isForHire bool, rentalDays int) float64 {
	total := unitPrice * float64(quantity)
	if isForHire {
		total *= float64(rentalDays)
	}
	return total
}

// Totals derives tax, shipping and the grand total from a subtotal.
func Totals(subtotal float64) (tax, shipping, total float64) {
	tax = Round2(subtotal * VATRate)
	if subtotal <= FreeShippingThreshold {
		shipping = FlatShippingFee
	}
	total = Round2(subtotal + tax + shipping)
	return tax, shipping, total
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// OrderNumber builds a human-readable order number, MON-YYMMDD-XXXXXX.
// Collisions are statistically negligible; the unique index on the orders
// table is the backstop.
func OrderNumber(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.IntN(len(orderNumberAlphabet))]
	}
	return fmt.Sprintf("MON-%s-%s", now.Format("060102"), suffix)
}
