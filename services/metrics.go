package services

import "github.com/prometheus/client_golang/prometheus"

var OrdersPlaced = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "api",
		Subsystem: "orders",
		Name:      "placed_total",
		Help:      "Orders committed by PlaceOrder",
	},
)
