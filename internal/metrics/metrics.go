package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pickleball_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pickleball_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pickleball_reservations_total",
			Help: "Reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	SlotConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pickleball_slot_conflicts_total",
			Help: "Reservations rejected because the interval was taken",
		},
	)

	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pickleball_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	AvailabilityPreviewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pickleball_availability_previews_total",
			Help: "Total number of availability preview requests",
		},
	)

	BookingEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pickleball_booking_events_published_total",
			Help: "Booking-changed events handed to the publisher",
		},
		[]string{"status"},
	)

	NotificationsQueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pickleball_notifications_queued_total",
			Help: "Booking notifications pushed to the outbound queue",
		},
		[]string{"type", "status"},
	)

	ConfirmedIntervals = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pickleball_confirmed_intervals",
			Help: "Confirmed intervals currently held in the conflict index",
		},
		[]string{"court_id"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordReservation(outcome string) {
	ReservationsTotal.WithLabelValues(outcome).Inc()
}

func RecordSlotConflict() {
	SlotConflictsTotal.Inc()
}

func RecordCancellation() {
	CancellationsTotal.Inc()
}

func RecordAvailabilityPreview() {
	AvailabilityPreviewsTotal.Inc()
}

func RecordEventPublished(status string) {
	BookingEventsPublished.WithLabelValues(status).Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsQueued.WithLabelValues(notifType, status).Inc()
}
