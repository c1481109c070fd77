package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	testCases := map[string]struct {
		target   string
		expected string
		wantErr  bool
	}{
		"bare host":      {target: "localhost:8081", expected: "http://localhost:8081"},
		"keeps scheme":   {target: "https://shop.local/", expected: "https://shop.local"},
		"trims spaces":   {target: "  10.0.0.5:80 ", expected: "http://10.0.0.5:80"},
		"empty is error": {target: "   ", wantErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			got, err := NormalizeBaseURL(tc.target, "http")
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestShopClient_URL(t *testing.T) {
	c := NewShopClient("http://shop/", nil)

	assert.Equal(t, "http://shop/api/orders", c.URL("api/orders"))
	assert.Equal(t, "http://shop/api/bad?mode=like", c.URL("/api/bad?mode=like"))
}

func TestShopClient_SearchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "lo", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":3,"sku":"SKU-00000003","name":"lo fi","price_cents":500}],"q":"lo","limit":10}`))
	}))
	defer srv.Close()

	status, products, err := NewShopClient(srv.URL, nil).SearchProducts(context.Background(), "lo", 10)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, products.Items, 1)
	assert.Equal(t, int64(3), products.Items[0].ID)
}

func TestShopClient_SearchProductsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	status, products, err := NewShopClient(srv.URL, nil).SearchProducts(context.Background(), "", 20)

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Nil(t, products)
}

func TestShopClient_PlaceOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "user1@example.com", r.PostForm.Get("customer_email"))
		assert.Equal(t, "42", r.PostForm.Get("product_id"))
		assert.Equal(t, "3", r.PostForm.Get("qty"))
		w.Write([]byte(`{"ok":true,"order_id":1}`))
	}))
	defer srv.Close()

	status, err := NewShopClient(srv.URL, nil).PlaceOrder(context.Background(), "user1@example.com", 42, 3)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestShopClient_GetHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewShopClient(srv.URL, nil).Get(ctx, "/api/bad")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
