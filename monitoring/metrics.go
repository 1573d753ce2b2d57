package monitoring

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var (
	reservationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_attempts_total",
			Help: "Seat reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	seatsReserved = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "seats_reserved_total",
			Help: "Current number of reserved guest seats across all screenings",
		},
	)

	activeSeatHolds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_seat_holds_total",
			Help: "Current number of in-flight seat holds",
		},
	)

	suggestionVotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_votes_total",
			Help: "Votes cast on movie suggestions",
		},
		[]string{"direction"},
	)

	suggestionsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestions_added_total",
			Help: "Movies added to the suggestion list",
		},
	)

	resolverDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resolver_request_duration_seconds",
			Help:    "Duration of movie catalog requests",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// TrackReservation counts a reservation attempt outcome.
func TrackReservation(outcome string) {
	reservationAttempts.WithLabelValues(outcome).Inc()
}

// TrackVote counts an up or down vote.
func TrackVote(direction string) {
	suggestionVotes.WithLabelValues(direction).Inc()
}

// TrackSuggestion counts a newly recommended movie.
func TrackSuggestion() {
	suggestionsAdded.Inc()
}

// ObserveResolverCall records how long one catalog request took.
func ObserveResolverCall(duration time.Duration) {
	resolverDuration.Observe(duration.Seconds())
}

type Monitor struct {
	app   core.App
	redis *redis.Client
}

func NewMonitor(app core.App, redisClient *redis.Client) *Monitor {
	monitor := &Monitor{app: app, redis: redisClient}

	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx := context.Background()

		m.collectReservationMetrics()
		m.collectHoldMetrics(ctx)
	}
}

func (m *Monitor) collectReservationMetrics() {
	records, err := m.app.FindAllRecords("reservations")
	if err != nil {
		return
	}
	seatsReserved.Set(float64(len(records)))
}

func (m *Monitor) collectHoldMetrics(ctx context.Context) {
	keys, err := m.redis.Keys(ctx, "hold:seat:*").Result()
	if err != nil {
		return
	}
	activeSeatHolds.Set(float64(len(keys)))
}

// StartMetricsServer exposes /metrics on its own port, away from the guest
// facing API.
func StartMetricsServer(port string) {
	e := echo.New()
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: e,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server stopped: %v", err)
		}
	}()
}
