package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liadelivery/backend/config"
	"github.com/liadelivery/backend/internal/domain"
	"github.com/liadelivery/backend/internal/usecase"
)

type stubCatalogRepo struct {
	entries []domain.CatalogEntry
}

func (s *stubCatalogRepo) FetchIndex(ctx context.Context) ([]domain.CatalogEntry, error) {
	return s.entries, nil
}

func (s *stubCatalogRepo) ReplaceIndex(ctx context.Context, entries []domain.CatalogEntry) error {
	s.entries = entries
	return nil
}

type stubPOSClient struct {
	catalog []domain.POSCatalogItem
}

func (s *stubPOSClient) SendOrder(ctx context.Context, order *domain.POSOrder) (*domain.POSOrderResponse, error) {
	return &domain.POSOrderResponse{OrderID: order.OrderID, Status: "accepted"}, nil
}

func (s *stubPOSClient) CancelOrder(ctx context.Context, codStore, orderID string) error {
	return nil
}

func (s *stubPOSClient) FetchCatalog(ctx context.Context) ([]domain.POSCatalogItem, error) {
	return s.catalog, nil
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubCatalogRepo{entries: []domain.CatalogEntry{
		{PDV: "100", DisplayName: "X Salada", Fingerprint: "xsalada", Kind: domain.EntryKindProduct, UnitPrice: 10.0},
		{PDV: "100.1", DisplayName: "Bacon", Fingerprint: "bacon", Kind: domain.EntryKindAddition, ParentPDV: "100", UnitPrice: 2.0},
	}}
	pos := &stubPOSClient{catalog: []domain.POSCatalogItem{
		{Code: "100", Item: "X Salada", Price: 10.0, Enabled: true},
		{Code: "100.1", ComplementItem: "Adicionais - Bacon", Price: 2.0, Enabled: true},
	}}

	interpreter := usecase.NewInterpreter(repo, usecase.MatcherConfig{})
	orders := usecase.NewOrderService(pos, usecase.OrderServiceConfig{CodStore: "42"})
	catalogSync := usecase.NewCatalogSyncService(pos, repo, interpreter)

	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.AllowedOrigins = []string{"*"}

	return SetupRouter(cfg, NewHandler(interpreter, orders, catalogSync))
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "lia-delivery-backend", body["service"])
}

func TestInterpretOrder(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("valid order text", func(t *testing.T) {
		payload := `{"texto": "2 x X Salada com Bacon"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/interpret", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result domain.InterpretationResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.Success)
		require.Len(t, result.ValidatedItems, 1)
		assert.Equal(t, "100", result.ValidatedItems[0].PDV)
		assert.Equal(t, 2, result.ValidatedItems[0].Quantity)
		require.Len(t, result.ValidatedItems[0].Additions, 1)
		assert.Equal(t, "100.1", result.ValidatedItems[0].Additions[0].PDV)
	})

	t.Run("unknown product still returns 200", func(t *testing.T) {
		payload := `{"texto": "1 x pizza calabresa"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/interpret", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var result domain.InterpretationResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Len(t, result.UnmatchedItems, 1)
	})

	t.Run("missing texto field", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/interpret", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/interpret", bytes.NewBufferString(`not json`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSubmitOrder(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("valid order", func(t *testing.T) {
		payload := `{
			"order_id": "ord-1",
			"nome": "Maria",
			"itens": [{"nome": "X Salada", "pdv": "100", "quantidade": 1, "preco_unitario": 10.0}]
		}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp domain.POSOrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ord-1", resp.OrderID)
		assert.Equal(t, "accepted", resp.Status)
	})

	t.Run("missing required fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewBufferString(`{"order_id": "ord-2"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRefreshCatalog(t *testing.T) {
	router := setupTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/refresh", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body["inserted"])
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("wildcard allows any origin", func(t *testing.T) {
		router := setupTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders/interpret", nil)
		req.Header.Set("Origin", "https://painel.example.com")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://painel.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("prefix wildcard", func(t *testing.T) {
		assert.True(t, isAllowedOrigin("https://app.lia.com.br", []string{"https://app.lia.*"}))
		assert.False(t, isAllowedOrigin("https://evil.com", []string{"https://app.lia.*"}))
	})

	t.Run("exact origin", func(t *testing.T) {
		assert.True(t, isAllowedOrigin("https://painel.lia.com.br", []string{"https://painel.lia.com.br"}))
		assert.False(t, isAllowedOrigin("https://other.com", []string{"https://painel.lia.com.br"}))
	})
}
