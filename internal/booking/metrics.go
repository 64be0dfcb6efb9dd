package booking

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "theatre_reservations_created_total",
			Help: "Total number of reservations created",
		},
	)

	ticketsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "theatre_tickets_booked_total",
			Help: "Total number of tickets booked",
		},
	)

	bookingRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theatre_booking_rejections_total",
			Help: "Total number of rejected booking attempts",
		},
		[]string{"reason"},
	)
)
