package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portfolio_dashboard"

var (
	// PriceCacheLookups counts price cache lookups by result (hit, miss).
	PriceCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "price_resolver",
		Name:      "cache_lookups_total",
		Help:      "Price cache lookups partitioned by result.",
	}, []string{"result"})

	// PriceResolutions counts ResolvePrices calls by outcome.
	PriceResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "price_resolver",
		Name:      "resolutions_total",
		Help:      "Price resolutions partitioned by outcome (ok, unresolvable, service_error).",
	}, []string{"outcome"})

	// PriceServiceRequestDuration observes external price-service round trips.
	PriceServiceRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "price_service",
		Name:      "request_duration_seconds",
		Help:      "Duration of price-service HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	// RPCRequests counts blockchain RPC calls by method and outcome.
	RPCRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Blockchain RPC requests partitioned by method and outcome.",
	}, []string{"method", "outcome"})

	// PortfolioFetchDuration observes whole portfolio fetches.
	PortfolioFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "portfolio",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of portfolio fetches partitioned by outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	// StaleFetchesDiscarded counts session fetch results dropped because a newer fetch started.
	StaleFetchesDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "stale_fetches_discarded_total",
		Help:      "Fetch results ignored because their generation was superseded.",
	})

	registerOnce sync.Once
)

// MustRegisterMetrics registers every collector with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PriceCacheLookups,
			PriceResolutions,
			PriceServiceRequestDuration,
			RPCRequests,
			PortfolioFetchDuration,
			StaleFetchesDiscarded,
		)
	})
}
