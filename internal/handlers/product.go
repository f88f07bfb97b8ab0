package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/monbijou/storefront/internal/events"
	"github.com/monbijou/storefront/internal/models"
	"github.com/monbijou/storefront/internal/service/search"
	"github.com/monbijou/storefront/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, events.TopicProductEvents, fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ProductHandler) syncIndex(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.Index(ctx, h.ES, h.ESIndex, p); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *ProductHandler) dropIndex(c echo.Context, productID uint) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.Delete(ctx, h.ES, h.ESIndex, productID); err != nil {
		c.Logger().Errorf("ES delete error: %v", err)
	}
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProductBySlug(c echo.Context) error {
	var product models.Product
	if err := h.DB.Where("slug = ?", c.Param("slug")).First(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, product)
}

// GetProducts lists products with the storefront's filters and the shared
// page/size pagination.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Product{})
	if v := c.QueryParam("category"); v != "" {
		q = q.Where("category = ?", v)
	}
	if v := c.QueryParam("decor_type"); v != "" {
		q = q.Where("decor_type = ?", v)
	}
	if v := c.QueryParam("jewelry_type"); v != "" {
		q = q.Where("jewelry_type = ?", v)
	}
	if v := c.QueryParam("featured"); v != "" {
		q = q.Where("is_featured = ?", v == "true")
	}
	if v := c.QueryParam("for_hire"); v != "" {
		q = q.Where("is_for_hire = ?", v == "true")
	}
	if v := c.QueryParam("active"); v != "" {
		q = q.Where("is_active = ?", v == "true")
	} else {
		q = q.Where("is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []models.Product
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

type productRequest struct {
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Price           float64                `json:"price"`
	CompareAtPrice  float64                `json:"compare_at_price"`
	Category        models.ProductCategory `json:"category"`
	JewelryType     string                 `json:"jewelry_type"`
	DecorType       string                 `json:"decor_type"`
	Colors          []models.ProductColor  `json:"colors"`
	Sizes           []models.ProductSize   `json:"sizes"`
	Materials       []string               `json:"materials"`
	ImageURL        string                 `json:"image_url"`
	StockQuantity   uint                   `json:"stock_quantity"`
	SKU             string                 `json:"sku"`
	IsForHire       bool                   `json:"is_for_hire"`
	HirePrice       float64                `json:"hire_price"`
	MinimumHireDays uint                   `json:"minimum_hire_days"`
	DepositAmount   float64                `json:"deposit_amount"`
	IsActive        *bool                  `json:"is_active"`
	IsFeatured      bool                   `json:"is_featured"`
	IsNew           bool                   `json:"is_new"`
	IsOnSale        bool                   `json:"is_on_sale"`
	SaleEndDate     *time.Time             `json:"sale_end_date"`
}

func (r *productRequest) validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Category != models.CategoryJewelry && r.Category != models.CategoryDecor {
		return fmt.Errorf("category must be jewelry or decor")
	}
	if r.Price < 0 || r.HirePrice < 0 {
		return fmt.Errorf("prices must be >= 0")
	}
	if r.IsForHire && r.HirePrice == 0 {
		return fmt.Errorf("hire items need a hire price")
	}
	return nil
}

func (r *productRequest) apply(p *models.Product) {
	p.Name = r.Name
	p.Slug = util.Slugify(r.Name)
	p.Description = r.Description
	p.Price = r.Price
	p.CompareAtPrice = r.CompareAtPrice
	p.Category = r.Category
	p.JewelryType = r.JewelryType
	p.DecorType = r.DecorType
	p.Colors = r.Colors
	p.Sizes = r.Sizes
	p.Materials = r.Materials
	p.ImageURL = r.ImageURL
	p.StockQuantity = r.StockQuantity
	p.SKU = r.SKU
	p.IsForHire = r.IsForHire
	p.HirePrice = r.HirePrice
	p.MinimumHireDays = r.MinimumHireDays
	p.DepositAmount = r.DepositAmount
	p.IsActive = r.IsActive == nil || *r.IsActive
	p.IsFeatured = r.IsFeatured
	p.IsNew = r.IsNew
	p.IsOnSale = r.IsOnSale
	p.SaleEndDate = r.SaleEndDate
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var prod models.Product
	req.apply(&prod)

	if err := h.DB.Create(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	h.syncIndex(c, &prod)

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var prod models.Product
	if err := h.DB.First(&prod, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	req.apply(&prod)
	if err := h.DB.Save(&prod).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	h.syncIndex(c, &prod)

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	h.dropIndex(c, uint(id))

	return c.NoContent(http.StatusNoContent)
}
