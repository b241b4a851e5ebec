// Package metrics métricas Prometheus del posteo de documentos.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var _ inventory.PostingMetrics = (*PostingMetrics)(nil)

// PostingMetrics contadores e histogramas sobre un registro propio (no el global).
type PostingMetrics struct {
	registry  *prometheus.Registry
	postings  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	movements *prometheus.CounterVec
	quantity  *prometheus.CounterVec
}

// NewPostingMetrics registra las métricas bajo namespace (p. ej. "inventory_ledger").
func NewPostingMetrics(namespace string) *PostingMetrics {
	reg := prometheus.NewRegistry()
	m := &PostingMetrics{
		registry: reg,
		postings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_postings_total",
			Help:      "Intentos de posteo por tipo de documento y resultado.",
		}, []string{"document", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_posting_duration_seconds",
			Help:      "Duración del posteo de documentos.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"document"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movements_total",
			Help:      "Movimientos escritos en el diario por tipo.",
		}, []string{"kind"}),
		quantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "movement_base_quantity_total",
			Help:      "Cantidad en unidad base movida por tipo.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.postings, m.duration, m.movements, m.quantity,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

func (m *PostingMetrics) ObservePosting(document, outcome string, d time.Duration) {
	m.postings.WithLabelValues(document, outcome).Inc()
	if outcome == inventory.OutcomePosted {
		m.duration.WithLabelValues(document).Observe(d.Seconds())
	}
}

func (m *PostingMetrics) ObserveMovement(kind entity.MovementKind, quantity decimal.Decimal) {
	m.movements.WithLabelValues(string(kind)).Inc()
	m.quantity.WithLabelValues(string(kind)).Add(quantity.Abs().InexactFloat64())
}

// Handler expone el registro en formato Prometheus.
func (m *PostingMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry para tests.
func (m *PostingMetrics) Registry() *prometheus.Registry { return m.registry }
