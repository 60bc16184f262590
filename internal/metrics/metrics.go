package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "amtron"

var (
	BusTransactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bus_transactions_total",
			Help:      "Number of Modbus transactions issued to the charger.",
		},
		[]string{
			"operation",
			"result",
		},
	)
	BusDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bus_transaction_duration_seconds",
			Help:      "Round-trip time of Modbus transactions.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{
			"operation",
		},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests served.",
		},
		[]string{
			"route",
			"method",
			"code",
		},
	)
)

// Register adds all collectors to r. Already registered collectors are ignored.
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{BusTransactions, BusDuration, HTTPRequests} {
		if err := r.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

func ResultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
