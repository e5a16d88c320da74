package seal

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts sealing activity.
type Metrics struct {
	roots             prometheus.Counter
	transactions      prometheus.Counter
	signatureFailures prometheus.Counter
	rootDuration      prometheus.Histogram
}

// NewMetrics creates the sealer collectors and registers them on reg when it
// is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		roots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledgerseal",
			Subsystem: "seal",
			Name:      "roots_total",
			Help:      "Merkle roots computed.",
		}),
		transactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledgerseal",
			Subsystem: "seal",
			Name:      "transactions_total",
			Help:      "Transactions included in computed roots.",
		}),
		signatureFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledgerseal",
			Subsystem: "seal",
			Name:      "signature_failures_total",
			Help:      "Pooled transactions that failed signature verification.",
		}),
		rootDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ledgerseal",
			Subsystem: "seal",
			Name:      "root_duration_seconds",
			Help:      "Time spent reducing transaction IDs to a Merkle root.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.roots, m.transactions, m.signatureFailures, m.rootDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register seal metrics: %w", err)
		}
	}
	return m, nil
}
