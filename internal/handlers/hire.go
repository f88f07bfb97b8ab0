package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/monbijou/storefront/internal/events"
	"github.com/monbijou/storefront/internal/mailer"
	"github.com/monbijou/storefront/internal/models"
	"github.com/monbijou/storefront/internal/service/orders"
	"github.com/monbijou/storefront/internal/service/token"
)

type HireHandler struct {
	Svc      *orders.Service
	Producer *events.Producer
	Mailer   *mailer.Mailer
}

func (h *HireHandler) publish(c echo.Context, requestID uint, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicHireEvents, fmt.Sprint(requestID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *HireHandler) contact(userID *uint, guestName, guestEmail string) (string, string) {
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

// CreateHireRequest takes a decor hire quote request from a guest or a
// logged-in user.
func (h *HireHandler) CreateHireRequest(c echo.Context) error {
	var in orders.CreateHireRequestInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	req, err := h.Svc.CreateHireRequest(c.Request().Context(), in, token.UserID(c))
	if err != nil {
		return serviceError(err)
	}

	h.publish(c, req.ID, map[string]any{
		"type":      "hire_request_created",
		"requestID": req.ID,
		"eventDate": req.EventDate,
	})

	if name, addr := h.contact(req.UserID, req.GuestName, req.GuestEmail); addr != "" {
		if err := h.Mailer.HireRequestReceived(name, addr, req.EventDate, req.EstimatedTotal); err != nil {
			c.Logger().Errorf("hire request mail error: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, req)
}

func (h *HireHandler) MyHireRequests(c echo.Context) error {
	userID := token.UserID(c)
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	list, err := h.Svc.UserHireRequests(c.Request().Context(), *userID)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *HireHandler) GetHireRequest(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	req, err := h.Svc.GetHireRequest(c.Request().Context(), uint(id))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, req)
}

func (h *HireHandler) ListHireRequests(c echo.Context) error {
	status := models.HireStatus(c.QueryParam("status"))

	list, err := h.Svc.ListHireRequests(c.Request().Context(), status)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *HireHandler) UpdateHireStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var in orders.UpdateHireStatusInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	req, err := h.Svc.UpdateHireStatus(c.Request().Context(), uint(id), in)
	if err != nil {
		return serviceError(err)
	}

	h.publish(c, req.ID, map[string]any{
		"type":      "hire_status_changed",
		"requestID": req.ID,
		"status":    req.Status,
	})

	return c.JSON(http.StatusOK, req)
}

func (h *HireHandler) MarkDepositPaid(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	req, err := h.Svc.MarkDepositPaid(c.Request().Context(), uint(id))
	if err != nil {
		return serviceError(err)
	}

	h.publish(c, req.ID, map[string]any{
		"type":      "hire_deposit_paid",
		"requestID": req.ID,
	})

	return c.JSON(http.StatusOK, req)
}

func (h *HireHandler) Stats(c echo.Context) error {
	stats, err := h.Svc.HireRequestStats(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
