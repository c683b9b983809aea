package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the service's Prometheus collectors.
type Metrics struct {
	Mounted    prometheus.Counter
	Active     prometheus.Gauge
	Dispatched *prometheus.CounterVec
	Suppressed prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mounted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "listing",
			Name:      "views_mounted_total",
			Help:      "Views mounted since start.",
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "listing",
			Name:      "views_active",
			Help:      "Views currently mounted.",
		}),
		Dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "listing",
			Name:      "actions_dispatched_total",
			Help:      "Actions dispatched to view reducers, by action type.",
		}, []string{"type"}),
		Suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "listing",
			Name:      "sold_out_clicks_total",
			Help:      "Add-to-cart clicks on sold-out items that were dropped.",
		}),
	}
	reg.MustRegister(m.Mounted, m.Active, m.Dispatched, m.Suppressed)
	return m
}
