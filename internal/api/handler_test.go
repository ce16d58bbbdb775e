package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"cart-service/internal/models"
	"cart-service/internal/notify"
	"cart-service/internal/service"
	"cart-service/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "cart.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	notifier := notify.NewNotifier(time.Minute)
	t.Cleanup(notifier.Close)

	svc, err := service.NewCartService(context.Background(), store, notifier)
	require.NoError(t, err)

	router := gin.New()
	NewHandler(svc).SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListProducts(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.SeedCatalog(), resp.Products)
}

func TestAddToCartEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: 1, Quantity: 2})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Items []models.CartLine `json:"items"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, int64(60), resp.Total)
}

func TestAddToCartEndpointInsufficientStock(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: 1, Quantity: 6})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAddToCartEndpointUnknownProduct(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: 99, Quantity: 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndRemoveEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: 1, Quantity: 2})
	require.Equal(t, http.StatusCreated, w.Code)

	qty := 1
	w = doJSON(t, router, http.MethodPut, "/api/v1/cart/items/1",
		UpdateItemRequest{Quantity: &qty})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []models.CartLine `json:"items"`
		Count int               `json:"count"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Zero(t, resp.Count)
	assert.Zero(t, resp.Total)
}

func TestGetMessage(t *testing.T) {
	router := newTestRouter(t)

	// No message yet.
	w := doJSON(t, router, http.MethodGet, "/api/v1/message", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	doJSON(t, router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{ProductID: 1, Quantity: 1})

	w = doJSON(t, router, http.MethodGet, "/api/v1/message", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var msg models.Message
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Equal(t, "Add to cart successfully", msg.Text)
	assert.Equal(t, models.KindSuccess, msg.Kind)
}
