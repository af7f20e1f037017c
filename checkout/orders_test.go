package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	models "storefront/model"
)

func TestOrderClientCreateOrder(t *testing.T) {
	var got models.OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":true,"statusCode":201,"message":"created"}`))
	}))
	defer srv.Close()

	c := NewOrderClient(srv.URL, nil)
	req := models.OrderRequest{
		CustomerName:    "Ada Lovelace",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: "12 Analytical Way",
		Items:           []models.OrderItem{{ProductID: "p1", Quantity: 2}},
	}
	require.NoError(t, c.CreateOrder(context.Background(), req))
	require.Equal(t, req, got)
}

func TestOrderClientNonSuccessStatusIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewOrderClient(srv.URL, nil)
	err := c.CreateOrder(context.Background(), models.OrderRequest{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestOrderClientTransportErrorIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewOrderClient(srv.URL, nil)
	require.Error(t, c.CreateOrder(context.Background(), models.OrderRequest{}))
}
