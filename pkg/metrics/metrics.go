package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AvailabilitySearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salon",
		Name:      "availability_searches_total",
		Help:      "Availability searches by mode and cache result.",
	}, []string{"mode", "cache"})

	SlotsReturned = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "salon",
		Name:      "availability_slots_returned",
		Help:      "Slots returned per availability search.",
		Buckets:   []float64{0, 1, 2, 4, 8, 16},
	}, []string{"mode"})

	SearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "salon",
		Name:      "availability_search_seconds",
		Help:      "Time spent in the scheduler per search.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"mode"})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "salon",
		Name:      "bookings_created_total",
		Help:      "Bookings stored.",
	})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "salon",
		Name:      "booking_conflicts_total",
		Help:      "Booking attempts rejected because the slot was taken.",
	})
)

// Handler exposes the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
