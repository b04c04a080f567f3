package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LedgerOperations counts ledger mutations by operation and outcome
var LedgerOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gembot_ledger_operations_total",
		Help: "Ledger operations by operation and status.",
	},
	[]string{"operation", "status"},
)

// LimitRejections counts mutations rejected by the limit policy
var LimitRejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gembot_limit_rejections_total",
		Help: "Mutations rejected by the limit policy, by limit kind.",
	},
	[]string{"limit"},
)

// TransferAmount observes completed transfer sizes
var TransferAmount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "gembot_transfer_amount_gems",
		Help:    "Completed transfer amounts in GEMS.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	},
)

// Handler returns the /metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
