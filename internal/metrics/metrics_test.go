package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCheckout(t *testing.T) {
	m := NewServerMetrics(prometheus.NewRegistry())

	m.ObserveCheckout(model.CheckoutModeBuyNow, "ok")
	m.ObserveCheckout(model.CheckoutModeBuyNow, "ok")
	m.ObserveCheckout(model.CheckoutModeBuyCart, "empty_cart")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("buy_now", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues("buy_cart", "empty_cart")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewServerMetrics(prometheus.NewRegistry())
	m.ObserveRequest(http.MethodGet, "/bookstore/api/books", http.StatusOK, 12)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `bookstore_http_requests_total{method="GET",route="/bookstore/api/books",status="200"} 1`)
}
