package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monbijou/storefront/internal/models"
)

func TestWishlistAddListRemove(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, models.Product{Name: "sapphire ring", Price: 800, Category: models.CategoryJewelry})
	user := env.createUser(t, "one@example.com", "customer")

	rec, c := env.doJSONRequest(http.MethodPost, "/me/wishlist", map[string]any{
		"product_id": product.ID,
	})
	c.Set("userID", user.ID)
	require.NoError(t, env.Wishlist.AddToWishlist(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	// adding again is idempotent, not an error
	rec2, c2 := env.doJSONRequest(http.MethodPost, "/me/wishlist", map[string]any{
		"product_id": product.ID,
	})
	c2.Set("userID", user.ID)
	require.NoError(t, env.Wishlist.AddToWishlist(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	recList, cList := env.doJSONRequest(http.MethodGet, "/me/wishlist", nil)
	cList.Set("userID", user.ID)
	require.NoError(t, env.Wishlist.GetWishlist(cList))

	var entries []struct {
		Product models.Product `json:"product"`
	}
	decodeBody(t, recList, &entries)
	require.Len(t, entries, 1)
	require.Equal(t, product.ID, entries[0].Product.ID)
	require.Equal(t, product.Name, entries[0].Product.Name)

	_, cRemove := env.doJSONRequest(http.MethodDelete, "/me/wishlist", nil)
	cRemove.Set("userID", user.ID)
	cRemove.SetParamNames("productID")
	cRemove.SetParamValues(strconv.Itoa(int(product.ID)))
	require.NoError(t, env.Wishlist.RemoveFromWishlist(cRemove))

	recAfter, cAfter := env.doJSONRequest(http.MethodGet, "/me/wishlist", nil)
	cAfter.Set("userID", user.ID)
	require.NoError(t, env.Wishlist.GetWishlist(cAfter))
	var after []any
	decodeBody(t, recAfter, &after)
	require.Empty(t, after)
}

func TestWishlistUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "one@example.com", "customer")

	_, c := env.doJSONRequest(http.MethodPost, "/me/wishlist", map[string]any{
		"product_id": 999,
	})
	c.Set("userID", user.ID)
	requireHTTPError(t, env.Wishlist.AddToWishlist(c), http.StatusNotFound)
}

func TestWishlistRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/me/wishlist", nil)
	requireHTTPError(t, env.Wishlist.GetWishlist(c), http.StatusUnauthorized)
}
