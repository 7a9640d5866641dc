package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingEvents counts lifecycle operations by kind and outcome.
	BookingEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfarer",
		Name:      "booking_events_total",
		Help:      "Booking lifecycle operations by event and outcome.",
	}, []string{"event", "outcome"})

	// CapacityRejections counts bookings refused because a schedule was full.
	CapacityRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wayfarer",
		Name:      "capacity_rejections_total",
		Help:      "Booking requests rejected for insufficient schedule capacity.",
	})

	// PaymentWebhookEvents counts provider events by type and outcome.
	PaymentWebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfarer",
		Name:      "payment_webhook_events_total",
		Help:      "Payment provider webhook events by type and outcome.",
	}, []string{"type", "outcome"})

	// HTTPRequests counts handled requests by route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wayfarer",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route template and status code.",
	}, []string{"method", "route", "status"})
)
