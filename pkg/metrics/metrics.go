// Package metrics colectores Prometheus del servicio.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	InventoryRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_inventory_rejections_total",
			Help: "Operaciones de inventario rechazadas por regla de negocio",
		},
		[]string{"reason"},
	)

	LowStockItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pos_low_stock_items",
			Help: "Filas de inventario en o bajo su umbral, por tenant (último escaneo)",
		},
		[]string{"tenant"},
	)
)

// Motivos para InventoryRejections.
const (
	ReasonInsufficientStock = "insufficient_stock"
	ReasonReturnExceeds     = "return_exceeds_available"
	ReasonSameBranch        = "same_branch"
	ReasonNotStockable      = "not_stockable"
)

var registerOnce sync.Once

// Register registra los colectores en el registry por defecto. Idempotente.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, InventoryRejections, LowStockItems)
	})
}

// RejectInventory incrementa el contador de rechazos.
func RejectInventory(reason string) {
	InventoryRejections.WithLabelValues(reason).Inc()
}
