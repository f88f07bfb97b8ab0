package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/cart"
	"github.com/monbijou/storefront/internal/events"
	"github.com/monbijou/storefront/internal/models"
	"github.com/monbijou/storefront/internal/pricing"
	"github.com/monbijou/storefront/internal/service/token"
)

const cartCookieName = "cartID"

type CartHandler struct {
	DB       *gorm.DB
	Store    cart.Store
	Producer *events.Producer
}

// cartID reads the cart cookie, minting a fresh uuid cookie on first contact.
func cartID(c echo.Context) string {
	if cookie, err := c.Cookie(cartCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	id := uuid.NewString()
	c.SetCookie(token.CreateCookie(cartCookieName, id, "/", time.Now().Add(30*24*time.Hour)))
	return id
}

func (h *CartHandler) publish(c echo.Context, id string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicCartEvents, id, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// parseDate accepts both bare yyyy-mm-dd and full RFC 3339 timestamps.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

// GetCart returns the cart lines plus a priced preview. rental_start and
// rental_end query params set the day count used for hire lines.
func (h *CartHandler) GetCart(c echo.Context) error {
	id := cartID(c)
	lines, err := h.Store.GetAll(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	rentalDays := pricing.RentalDays(
		parseDate(c.QueryParam("rental_start")),
		parseDate(c.QueryParam("rental_end")),
	)

	subtotal := pricing.Round2(cart.Total(lines, rentalDays))
	tax, shipping, total := pricing.Totals(subtotal)

	return c.JSON(http.StatusOK, map[string]any{
		"items":       lines,
		"rental_days": rentalDays,
		"subtotal":    subtotal,
		"tax":         tax,
		"shipping":    shipping,
		"total":       total,
	})
}

// AddToCart looks the product up and captures the server-side price; the
// client never supplies one.
func (h *CartHandler) AddToCart(c echo.Context) error {
	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if !product.IsActive {
		return echo.NewHTTPError(http.StatusConflict, "product is not available")
	}

	unitPrice := product.Price
	if product.IsForHire {
		unitPrice = product.HirePrice
	}

	id := cartID(c)
	lines, err := h.Store.AddItem(c.Request().Context(), id, cart.Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: unitPrice,
		Image:     product.ImageURL,
		Quantity:  req.Quantity,
		IsForHire: product.IsForHire,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, id, map[string]any{
		"type":      "cart_item_added",
		"cartID":    id,
		"productID": product.ID,
	})

	return c.JSON(http.StatusOK, map[string]any{"items": lines})
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	id := cartID(c)
	lines, err := h.Store.RemoveItem(c.Request().Context(), id, uint(productID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, id, map[string]any{
		"type":      "cart_item_removed",
		"cartID":    id,
		"productID": productID,
	})

	return c.JSON(http.StatusOK, map[string]any{"items": lines})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	id := cartID(c)
	if err := h.Store.Clear(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, id, map[string]any{
		"type":   "cart_cleared",
		"cartID": id,
	})

	return c.JSON(http.StatusOK, Response{Status: "ok", Message: fmt.Sprintf("cart %s cleared", id)})
}
