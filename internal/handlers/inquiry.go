package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/models"
	"github.com/monbijou/storefront/internal/service/token"
)

type InquiryHandler struct {
	DB *gorm.DB
}

// CreateInquiry takes a contact-form message. Open to guests; a logged-in
// user's id is attached when present.
func (h *InquiryHandler) CreateInquiry(c echo.Context) error {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Subject    string `json:"subject"`
		EventType  string `json:"event_type"`
		EventDate  string `json:"event_date"`
		Venue      string `json:"venue"`
		GuestCount uint   `json:"guest_count"`
		Message    string `json:"message"`
		ProductID  *uint  `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and message are required")
	}

	inquiry := models.Inquiry{
		UserID:     token.UserID(c),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Subject:    req.Subject,
		EventType:  req.EventType,
		EventDate:  req.EventDate,
		Venue:      req.Venue,
		GuestCount: req.GuestCount,
		Message:    req.Message,
		ProductID:  req.ProductID,
		Status:     models.InquiryNew,
	}
	if err := h.DB.Create(&inquiry).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, inquiry)
}

func (h *InquiryHandler) ListInquiries(c echo.Context) error {
	q := h.DB.Model(&models.Inquiry{}).Order("created_at DESC")
	if v := c.QueryParam("status"); v != "" {
		status := models.InquiryStatus(v)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
		}
		q = q.Where("status = ?", status)
	}

	var inquiries []models.Inquiry
	if err := q.Find(&inquiries).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, inquiries)
}

func (h *InquiryHandler) UpdateInquiry(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Status     models.InquiryStatus `json:"status"`
		AdminReply *string              `json:"admin_reply"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Status != "" && !req.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
	}

	var inquiry models.Inquiry
	if err := h.DB.First(&inquiry, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "inquiry not found")
	}

	if req.Status != "" {
		inquiry.Status = req.Status
	}
	if req.AdminReply != nil {
		inquiry.AdminReply = *req.AdminReply
		if req.Status == "" {
			inquiry.Status = models.InquiryReplied
		}
	}

	if err := h.DB.Save(&inquiry).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, inquiry)
}
