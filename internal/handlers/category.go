package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/models"
	"github.com/monbijou/storefront/internal/util"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	q := h.DB.Model(&models.Category{})
	if v := c.QueryParam("type"); v != "" {
		q = q.Where("type = ? AND is_active = ?", v, true)
	}

	var categories []models.Category
	if err := q.Order("display_order ASC").Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategoryBySlug(c echo.Context) error {
	var category models.Category
	if err := h.DB.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}
	return c.JSON(http.StatusOK, category)
}

type categoryRequest struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	ImageURL     string                 `json:"image_url"`
	Type         models.ProductCategory `json:"type"`
	DisplayOrder *int                   `json:"display_order"`
	IsActive     *bool                  `json:"is_active"`
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Type != models.CategoryJewelry && req.Type != models.CategoryDecor {
		return echo.NewHTTPError(http.StatusBadRequest, "type must be jewelry or decor")
	}

	displayOrder := 0
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	} else {
		// new categories go to the end of their type's list
		var max int
		h.DB.Model(&models.Category{}).
			Where("type = ?", req.Type).
			Select("COALESCE(MAX(display_order), 0)").
			Scan(&max)
		displayOrder = max + 1
	}

	category := models.Category{
		Name:         req.Name,
		Slug:         util.Slugify(req.Name),
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Type:         req.Type,
		DisplayOrder: displayOrder,
		IsActive:     req.IsActive == nil || *req.IsActive,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) PatchCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "category not found")
	}

	if req.Name != "" {
		category.Name = req.Name
		category.Slug = util.Slugify(req.Name)
	}
	if req.Description != "" {
		category.Description = req.Description
	}
	if req.ImageURL != "" {
		category.ImageURL = req.ImageURL
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if err := h.DB.Delete(&models.Category{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
