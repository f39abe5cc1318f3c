// Package metrics expone en Prometheus los resultados de la capa de enlace.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Diegoval-Dev/R-Lab2/receptor-go/pkg/link"
)

// Metrics implementa link.Observer. Cada instancia usa su propio registro,
// así varias instancias (tests, varios receptores) no colisionan.
type Metrics struct {
	registry *prometheus.Registry

	messagesTotal   *prometheus.CounterVec
	correctedTotal  *prometheus.CounterVec
	receivedBits    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		messagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receptor_messages_total",
				Help: "Mensajes procesados por algoritmo y estado final",
			},
			[]string{"codec", "state"},
		),
		correctedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receptor_corrected_total",
				Help: "Mensajes entregados tras corregir un bit",
			},
			[]string{"codec"},
		),
		receivedBits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receptor_received_bits_total",
				Help: "Bits recibidos por algoritmo",
			},
			[]string{"codec"},
		),
		processDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "receptor_process_duration_seconds",
				Help:    "Tiempo de verificación, corrección y decodificación",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"codec"},
		),
	}
}

func (m *Metrics) ObserveOutcome(o *link.Outcome) {
	m.messagesTotal.WithLabelValues(o.Codec, o.State.String()).Inc()
	m.receivedBits.WithLabelValues(o.Codec).Add(float64(o.ReceivedBits))
	m.processDuration.WithLabelValues(o.Codec).Observe(o.Duration.Seconds())
	if o.Delivered() && o.Result.ErrorCorrected {
		m.correctedTotal.WithLabelValues(o.Codec).Inc()
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler sirve el registro en formato de exposición de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var _ link.Observer = (*Metrics)(nil)
