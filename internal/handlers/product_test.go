package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monbijou/storefront/internal/models"
)

func TestGetProductsFilters(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, models.Product{Name: "tiara", Price: 400, Category: models.CategoryJewelry, JewelryType: "tiara"})
	env.createProduct(t, models.Product{Name: "veil", Price: 150, Category: models.CategoryJewelry, JewelryType: "veil", IsFeatured: true})
	env.createProduct(t, models.Product{Name: "arch", Category: models.CategoryDecor, DecorType: "arch", IsForHire: true, HirePrice: 350})
	hidden := env.createProduct(t, models.Product{Name: "old stock", Price: 10, Category: models.CategoryJewelry})
	require.NoError(t, env.DB.Model(hidden).Update("is_active", false).Error)

	type listResp struct {
		Data []models.Product `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}

	// inactive products are hidden by default
	rec, c := env.doJSONRequest(http.MethodGet, "/products", nil)
	require.NoError(t, env.Product.GetProducts(c))
	var all listResp
	decodeBody(t, rec, &all)
	require.Equal(t, int64(3), all.Meta.Total)

	rec2, c2 := env.doJSONRequest(http.MethodGet, "/products?category=decor", nil)
	require.NoError(t, env.Product.GetProducts(c2))
	var decor listResp
	decodeBody(t, rec2, &decor)
	require.Len(t, decor.Data, 1)
	require.Equal(t, "arch", decor.Data[0].Name)

	rec3, c3 := env.doJSONRequest(http.MethodGet, "/products?featured=true", nil)
	require.NoError(t, env.Product.GetProducts(c3))
	var featured listResp
	decodeBody(t, rec3, &featured)
	require.Len(t, featured.Data, 1)
	require.Equal(t, "veil", featured.Data[0].Name)

	rec4, c4 := env.doJSONRequest(http.MethodGet, "/products?for_hire=true", nil)
	require.NoError(t, env.Product.GetProducts(c4))
	var hire listResp
	decodeBody(t, rec4, &hire)
	require.Len(t, hire.Data, 1)
	require.True(t, hire.Data[0].IsForHire)
}

func TestGetProductBySlug(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, models.Product{Name: "tiara", Slug: "pearl-tiara", Price: 400, Category: models.CategoryJewelry})

	rec, c := env.doJSONRequest(http.MethodGet, "/products/slug/pearl-tiara", nil)
	c.SetParamNames("slug")
	c.SetParamValues("pearl-tiara")
	require.NoError(t, env.Product.GetProductBySlug(c))

	var got models.Product
	decodeBody(t, rec, &got)
	require.Equal(t, product.ID, got.ID)

	_, c2 := env.doJSONRequest(http.MethodGet, "/products/slug/missing", nil)
	c2.SetParamNames("slug")
	c2.SetParamValues("missing")
	requireHTTPError(t, env.Product.GetProductBySlug(c2), http.StatusNotFound)
}
