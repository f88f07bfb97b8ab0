package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/models"
	"github.com/monbijou/storefront/internal/pricing"
	"github.com/monbijou/storefront/internal/service/token"
)

type ReviewHandler struct {
	DB *gorm.DB
}

// CreateReview stores one review per user per product and folds the new
// rating into the product's aggregate inside the same transaction.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	userID := token.UserID(c)
	if userID == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	var req struct {
		ProductID uint   `json:"product_id"`
		Rating    int    `json:"rating"`
		Title     string `json:"title"`
		Content   string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}

	review := models.Review{
		UserID:    *userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Title:     req.Title,
		Content:   req.Content,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			return err
		}

		var existing models.Review
		dup := tx.Where("user_id = ? AND product_id = ?", *userID, req.ProductID).First(&existing)
		if dup.Error == nil {
			return errDuplicateReview
		}
		if !errors.Is(dup.Error, gorm.ErrRecordNotFound) {
			return dup.Error
		}

		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		newCount := product.ReviewCount + 1
		product.Rating = pricing.Round2(
			(product.Rating*float64(product.ReviewCount) + float64(req.Rating)) / float64(newCount),
		)
		product.ReviewCount = newCount
		return tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Updates(map[string]any{"rating": product.Rating, "review_count": product.ReviewCount}).Error
	})
	switch {
	case errors.Is(err, errDuplicateReview):
		return echo.NewHTTPError(http.StatusConflict, "you have already reviewed this product")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, review)
}

var errDuplicateReview = errors.New("duplicate review")

// GetProductReviews lists a product's approved reviews with author names
// resolved for display.
func (h *ReviewHandler) GetProductReviews(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("productID"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var reviews []models.Review
	err = h.DB.Where("product_id = ? AND is_approved = ?", productID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ids := make([]uint, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.UserID)
	}
	names := map[uint]string{}
	if len(ids) > 0 {
		var users []models.User
		if err := h.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		for _, u := range users {
			names[u.ID] = u.Name
		}
	}
	for i := range reviews {
		reviews[i].AuthorName = names[reviews[i].UserID]
	}

	return c.JSON(http.StatusOK, reviews)
}

// DeleteReview removes a review and backs its rating out of the product
// aggregate.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}

		var product models.Product
		if err := tx.First(&product, review.ProductID).Error; err != nil {
			return err
		}
		if product.ReviewCount <= 1 {
			product.Rating = 0
			product.ReviewCount = 0
		} else {
			newCount := product.ReviewCount - 1
			product.Rating = pricing.Round2(
				(product.Rating*float64(product.ReviewCount) - float64(review.Rating)) / float64(newCount),
			)
			product.ReviewCount = newCount
		}
		return tx.Model(&models.Product{}).Where("id = ?", product.ID).
			Updates(map[string]any{"rating": product.Rating, "review_count": product.ReviewCount}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "review not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
