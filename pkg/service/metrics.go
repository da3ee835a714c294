package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "order_lifecycle_events_total",
		Help: "Order mutations by lifecycle event",
	},
	[]string{"event"},
)
