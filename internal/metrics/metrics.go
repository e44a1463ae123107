// Package metrics exposes Prometheus counters for rooms and moves.
// Collectors live on a private registry so tests can build as many as they like.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg *prometheus.Registry

	Moves        *prometheus.CounterVec // game, cue
	Rejections   *prometheus.CounterVec // game, kind
	RoomsCreated *prometheus.CounterVec // game
	Rematches    *prometheus.CounterVec // game
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardgames_moves_total",
			Help: "Accepted moves and turn passes.",
		}, []string{"game", "cue"}),
		Rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardgames_rejections_total",
			Help: "Rejected requests by rejection kind.",
		}, []string{"game", "kind"}),
		RoomsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardgames_rooms_created_total",
			Help: "Rooms created.",
		}, []string{"game"}),
		Rematches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardgames_rematches_total",
			Help: "Rematches started.",
		}, []string{"game"}),
	}
	m.reg.MustRegister(
		m.Moves, m.Rejections, m.RoomsCreated, m.Rematches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
