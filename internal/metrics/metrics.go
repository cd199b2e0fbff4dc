// Package metrics exports cycle telemetry as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"airline_bots/internal/bot"
	"airline_bots/internal/game"
	"airline_bots/internal/personality"
)

const namespace = "botsim"

// Recorder implements game.Recorder.
type Recorder struct {
	cycles        prometheus.Counter
	cycleDuration prometheus.Histogram
	actions       *prometheus.CounterVec
	created       *prometheus.CounterVec
	abandoned     *prometheus.CounterVec
	priceUpdates  *prometheus.CounterVec
	botFailures   prometheus.Counter
}

var _ game.Recorder = (*Recorder)(nil)

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Completed bot cycles.",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of one bot cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Bot actions by outcome.",
		}, []string{"action", "outcome"}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_created_total",
			Help:      "Routes opened by bots.",
		}, []string{"personality"}),
		abandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_abandoned_total",
			Help:      "Routes closed by bots.",
		}, []string{"personality"}),
		priceUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_updates_total",
			Help:      "Route fare changes by source action.",
		}, []string{"source"}),
		botFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_failures_total",
			Help:      "Bots that faulted during a cycle.",
		}),
	}
	reg.MustRegister(r.cycles, r.cycleDuration, r.actions, r.created, r.abandoned, r.priceUpdates, r.botFailures)
	return r
}

func (r *Recorder) CycleCompleted(d time.Duration) {
	r.cycles.Inc()
	r.cycleDuration.Observe(d.Seconds())
}

func (r *Recorder) ActionCompleted(action bot.Action, status string) {
	r.actions.WithLabelValues(string(action), status).Inc()
}

func (r *Recorder) RoutesCreated(p personality.Kind, n int) {
	r.created.WithLabelValues(p.String()).Add(float64(n))
}

func (r *Recorder) RoutesAbandoned(p personality.Kind, n int) {
	r.abandoned.WithLabelValues(p.String()).Add(float64(n))
}

func (r *Recorder) PricesUpdated(source string, n int) {
	r.priceUpdates.WithLabelValues(source).Add(float64(n))
}

func (r *Recorder) BotFailed() { r.botFailures.Inc() }
