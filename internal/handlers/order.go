package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/monbijou/storefront/internal/cart"
	"github.com/monbijou/storefront/internal/events"
	"github.com/monbijou/storefront/internal/mailer"
	"github.com/monbijou/storefront/internal/models"
	"github.com/monbijou/storefront/internal/service/orders"
	"github.com/monbijou/storefront/internal/service/token"
)

type OrderHandler struct {
	Svc       *orders.Service
	Producer  *events.Producer
	Mailer    *mailer.Mailer
	CartStore cart.Store
}

func (h *OrderHandler) publish(c echo.Context, orderID uint, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicOrderEvents, fmt.Sprint(orderID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// contact picks the mail recipient: guest fields when present, otherwise the
// account holder's details.
func (h *OrderHandler) contact(userID *uint, guestName, guestEmail string) (string, string) {
	if guestEmail != "" {
		return guestName, guestEmail
	}
	if userID == nil {
		return "", ""
	}
	var user models.User
	if err := h.Svc.DB.First(&user, *userID).Error; err != nil {
		return "", ""
	}
	return user.Name, user.Email
}

// Checkout creates an order from the submitted items. Works for guests and
// logged-in users alike; the server recomputes every total.
func (h *OrderHandler) Checkout(c echo.Context) error {
	var in orders.CreateOrderInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(c.Request().Context(), in, token.UserID(c))
	if err != nil {
		return serviceError(err)
	}

	h.publish(c, order.ID, map[string]any{
		"type":        "order_created",
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"total":       order.Total,
	})

	if name, addr := h.contact(order.UserID, order.GuestName, order.GuestEmail); addr != "" {
		if err := h.Mailer.OrderConfirmation(name, addr, order.OrderNumber, order.Total); err != nil {
			c.Logger().Errorf("order confirmation mail error: %v", err)
		}
	}

	// the server-side cart is spent once the order exists
	if cookie, err := c.Cookie(cartCookieName); err == nil && cookie.Value != "" {
		if err := h.CartStore.Clear(c.Request().Context(), cookie.Value); err != nil {
			c.Logger().Errorf("cart clear error: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, order)
}

// MyOrders lists the authenticated user's own orders.
func (h *OrderHandler) MyOrders(c echo.Context) error {
	userID := token.UserID(c)
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	list, err := h.Svc.UserOrders(c.Request().Context(), *userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), uint(id))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	status := models.OrderStatus(c.QueryParam("status"))
	limit := parseIntDefault(c.QueryParam("limit"), 0)

	list, err := h.Svc.ListOrders(c.Request().Context(), status, limit)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		return serviceError(err)
	}

	h.publish(c, order.ID, map[string]any{
		"type":    "order_status_changed",
		"orderID": order.ID,
		"status":  order.Status,
	})

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdatePaymentStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		PaymentStatus models.PaymentStatus `json:"payment_status"`
		PaymentID     string               `json:"payment_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdatePaymentStatus(c.Request().Context(), uint(id), req.PaymentStatus, req.PaymentID)
	if err != nil {
		return serviceError(err)
	}

	h.publish(c, order.ID, map[string]any{
		"type":          "order_payment_changed",
		"orderID":       order.ID,
		"paymentStatus": order.PaymentStatus,
	})

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Stats(c echo.Context) error {
	stats, err := h.Svc.Stats(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
