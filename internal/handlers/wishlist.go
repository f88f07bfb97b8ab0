package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/models"
	"github.com/monbijou/storefront/internal/service/token"
)

type WishlistHandler struct {
	DB *gorm.DB
}

type wishlistEntry struct {
	ID      uint           `json:"id"`
	AddedAt string         `json:"added_at"`
	Product models.Product `json:"product"`
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	userID := token.UserID(c)
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var items []models.WishlistItem
	err := h.DB.Where("user_id = ?", *userID).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	entries := make([]wishlistEntry, 0, len(items))
	for _, item := range items {
		var product models.Product
		if err := h.DB.First(&product, item.ProductID).Error; err != nil {
			// the product was removed from the catalog; drop the stale entry
			continue
		}
		entries = append(entries, wishlistEntry{
			ID:      item.ID,
			AddedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Product: product,
		})
	}

	return c.JSON(http.StatusOK, entries)
}

// AddToWishlist is idempotent: adding a product already on the list returns
// the existing entry.
func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	userID := token.UserID(c)
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var req struct {
		ProductID uint `json:"product_id"`
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

	var existing models.WishlistItem
	result := h.DB.Where("user_id = ? AND product_id = ?", *userID, req.ProductID).First(&existing)
	if result.Error == nil {
		return c.JSON(http.StatusOK, existing)
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, result.Error.Error())
	}

	item := models.WishlistItem{UserID: *userID, ProductID: req.ProductID}
	if err := h.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	userID := token.UserID(c)
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	err = h.DB.Where("user_id = ? AND product_id = ?", *userID, productID).
		Delete(&models.WishlistItem{}).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
