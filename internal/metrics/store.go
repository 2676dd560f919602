package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	storeRegisterOnce sync.Once

	remoteFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hydrahunt",
			Subsystem: "store",
			Name:      "remote_fallbacks_total",
			Help:      "Operations that fell back to the local tier after a remote failure.",
		},
		[]string{"op"},
	)

	migratedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hydrahunt",
			Subsystem: "store",
			Name:      "migrated_records_total",
			Help:      "Guest records processed during guest-to-account migration.",
		},
		[]string{"result"},
	)
)

func registerStoreMetrics() {
	storeRegisterOnce.Do(func() {
		prometheus.MustRegister(remoteFallbacks, migratedRecords)
	})
}

// RemoteFallback counts one degraded operation, labelled by facade op.
func RemoteFallback(op string) {
	registerStoreMetrics()
	remoteFallbacks.WithLabelValues(op).Inc()
}

// MigratedRecord counts one migrated guest record, result "ok" or "failed".
func MigratedRecord(result string) {
	registerStoreMetrics()
	migratedRecords.WithLabelValues(result).Inc()
}
