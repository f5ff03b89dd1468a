package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Validator metrics
	ActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "windward_actions_total",
		Help: "Validated actions by kind and outcome",
	}, []string{"action", "outcome"})

	ShipsSunkTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "windward_ships_sunk_total",
		Help: "Ships sunk by validated combat actions",
	})

	// Rate limiter metrics
	RateLimitRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "windward_rate_limit_rejections_total",
		Help: "Requests rejected by rate limiters, by scope",
	}, []string{"scope"})

	// Feed metrics
	FeedClientsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "windward_feed_clients_connected",
		Help: "Currently connected websocket feed clients",
	})
	FeedClientsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "windward_feed_clients_dropped_total",
		Help: "Feed clients dropped for not keeping up with broadcasts",
	})

	// Sweep metrics
	SweepDeletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "windward_sweep_deletions_total",
		Help: "Records removed by maintenance sweeps, by kind",
	}, []string{"kind"})
	PlayersMarkedOfflineTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "windward_players_marked_offline_total",
		Help: "Players marked offline by the inactivity sweep",
	})
)
