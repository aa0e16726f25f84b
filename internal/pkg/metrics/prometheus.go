package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "neo_wallet"

// Metrics used in monitoring service.
var (
	remoteCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of calls to remote services by target, method and outcome",
			Name:      "remote_calls_total",
			Namespace: namespace,
		},
		[]string{"target", "method", "outcome"},
	)
	remoteCallTimes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Help:      "Remote call time",
			Name:      "remote_call_seconds",
			Namespace: namespace,
		},
		[]string{"target", "method"},
	)
	transfersSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of broadcast transfers by asset kind",
			Name:      "transfers_sent_total",
			Namespace: namespace,
		},
		[]string{"kind"},
	)
	gasClaims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of finished GAS claim workflows by outcome",
			Name:      "gas_claims_total",
			Namespace: namespace,
		},
		[]string{"outcome"},
	)
	tokenLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of token balance lookups by status",
			Name:      "token_lookups_total",
			Namespace: namespace,
		},
		[]string{"status"},
	)
	confirmationWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Help:      "Time from broadcast to confirmation",
			Name:      "confirmation_wait_seconds",
			Namespace: namespace,
			Buckets:   []float64{15, 20, 30, 45, 60, 90, 120, 300, 600},
		},
	)
)

func init() {
	prometheus.MustRegister(
		remoteCalls,
		remoteCallTimes,
		transfersSent,
		gasClaims,
		tokenLookups,
		confirmationWait,
	)
}

// ObserveRemoteCall records a finished call to an external service.
func ObserveRemoteCall(target, method string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	remoteCalls.WithLabelValues(target, method, outcome).Inc()
	remoteCallTimes.WithLabelValues(target, method).Observe(time.Since(started).Seconds())
}

// IncTransfer counts a broadcast transfer of the given asset kind.
func IncTransfer(kind string) {
	transfersSent.WithLabelValues(kind).Inc()
}

// IncGasClaim counts a terminated claim workflow.
func IncGasClaim(outcome string) {
	gasClaims.WithLabelValues(outcome).Inc()
}

// IncTokenLookup counts a token balance lookup by its status.
func IncTokenLookup(status string) {
	tokenLookups.WithLabelValues(status).Inc()
}

// ObserveConfirmation records how long a transaction took to confirm.
func ObserveConfirmation(d time.Duration) {
	confirmationWait.Observe(d.Seconds())
}

// Handler serves the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
