package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/monbijou/storefront/internal/models"
)

func createHireRequest(t *testing.T, env *testEnv) models.HireRequest {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/hire-requests", map[string]any{
		"guest_name":  "Lerato",
		"guest_email": "lerato@example.com",
		"event_date":  "2026-10-03",
		"event_type":  "wedding",
		"items": []map[string]any{
			{"product_id": 1, "name": "crystal arch", "quantity": 2, "hire_price": 350},
			{"product_id": 2, "name": "gold candelabra", "quantity": 10, "hire_price": 45},
		},
	})
	require.NoError(t, env.Hire.CreateHireRequest(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var req models.HireRequest
	decodeBody(t, rec, &req)
	return req
}

func TestCreateHireRequest(t *testing.T) {
	env := newTestEnv(t)
	req := createHireRequest(t, env)

	// 2x350 + 10x45, no day multiplication
	require.Equal(t, 1150.0, req.EstimatedTotal)
	require.Equal(t, models.HirePending, req.Status)
	require.False(t, req.DepositPaid)
}

func TestCreateHireRequestValidation(t *testing.T) {
	env := newTestEnv(t)

	// no event date
	_, c := env.doJSONRequest(http.MethodPost, "/hire-requests", map[string]any{
		"guest_name":  "Lerato",
		"guest_email": "lerato@example.com",
		"items": []map[string]any{
			{"product_id": 1, "name": "arch", "quantity": 1, "hire_price": 350},
		},
	})
	requireHTTPError(t, env.Hire.CreateHireRequest(c), http.StatusBadRequest)

	// guest without contact details
	_, c2 := env.doJSONRequest(http.MethodPost, "/hire-requests", map[string]any{
		"event_date": "2026-10-03",
		"items": []map[string]any{
			{"product_id": 1, "name": "arch", "quantity": 1, "hire_price": 350},
		},
	})
	requireHTTPError(t, env.Hire.CreateHireRequest(c2), http.StatusBadRequest)
}

func TestHireQuoteAndDepositFlow(t *testing.T) {
	env := newTestEnv(t)
	req := createHireRequest(t, env)
	id := strconv.Itoa(int(req.ID))

	// deposit before a quote exists is a conflict
	_, cEarly := env.doJSONRequest(http.MethodPost, "/admin/hire-requests/deposit", nil)
	cEarly.SetParamNames("id")
	cEarly.SetParamValues(id)
	requireHTTPError(t, env.Hire.MarkDepositPaid(cEarly), http.StatusConflict)

	recQuote, cQuote := env.doJSONRequest(http.MethodPatch, "/admin/hire-requests/status", map[string]any{
		"status":        "quoted",
		"quoted_amount": 1500.0,
		"admin_notes":   "includes delivery and setup",
	})
	cQuote.SetParamNames("id")
	cQuote.SetParamValues(id)
	require.NoError(t, env.Hire.UpdateHireStatus(cQuote))

	var quoted models.HireRequest
	decodeBody(t, recQuote, &quoted)
	require.Equal(t, models.HireQuoted, quoted.Status)
	require.Equal(t, 1500.0, quoted.QuotedAmount)

	recDeposit, cDeposit := env.doJSONRequest(http.MethodPost, "/admin/hire-requests/deposit", nil)
	cDeposit.SetParamNames("id")
	cDeposit.SetParamValues(id)
	require.NoError(t, env.Hire.MarkDepositPaid(cDeposit))

	var confirmed models.HireRequest
	decodeBody(t, recDeposit, &confirmed)
	require.True(t, confirmed.DepositPaid)
	require.Equal(t, models.HireConfirmed, confirmed.Status)

	// paying the deposit twice is a conflict
	_, cAgain := env.doJSONRequest(http.MethodPost, "/admin/hire-requests/deposit", nil)
	cAgain.SetParamNames("id")
	cAgain.SetParamValues(id)
	requireHTTPError(t, env.Hire.MarkDepositPaid(cAgain), http.StatusConflict)
}

func TestHireStats(t *testing.T) {
	env := newTestEnv(t)
	createHireRequest(t, env)
	createHireRequest(t, env)

	rec, c := env.doJSONRequest(http.MethodGet, "/admin/hire-requests/stats", nil)
	require.NoError(t, env.Hire.Stats(c))

	var stats struct {
		TotalRequests   int64 `json:"total_requests"`
		PendingRequests int64 `json:"pending_requests"`
	}
	decodeBody(t, rec, &stats)
	require.Equal(t, int64(2), stats.TotalRequests)
	require.Equal(t, int64(2), stats.PendingRequests)
}
