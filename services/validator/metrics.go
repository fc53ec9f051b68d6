package validator

import (
	"sync"

	"github.com/idc-chain/idcnode/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusValidatedTransactions prometheus.Counter
	prometheusInvalidTransactions   prometheus.Counter
	prometheusValidateTransaction   prometheus.Histogram
	prometheusInvalidBlocks         *prometheus.CounterVec
	prometheusBlockSignatureFailed  prometheus.Counter
	prometheusDuplicateStakes       prometheus.Counter
	prometheusValidateBlock         prometheus.Histogram
	prometheusConnectBlock          prometheus.Histogram
	prometheusMoneySupply           prometheus.Gauge
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusValidatedTransactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "idcnode",
			Subsystem: "validator",
			Name:      "validated_transactions",
			Help:      "Number of transactions that passed the context free checks",
		},
	)

	prometheusInvalidTransactions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "idcnode",
			Subsystem: "validator",
			Name:      "invalid_transactions",
			Help:      "Number of transactions found invalid by the validator",
		},
	)

	prometheusValidateTransaction = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "idcnode",
			Subsystem: "validator",
			Name:      "validate_transaction",
			Help:      "Histogram of transaction validation",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)

	prometheusInvalidBlocks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "idcnode",
			Subsystem: "validator",
			Name:      "invalid_blocks",
			Help:      "Number of blocks rejected, by reject reason",
		},
		[]string{"reason"},
	)

	prometheusBlockSignatureFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "idcnode",
			Subsystem: "validator",
			Name:      "block_signature_failed",
			Help:      "Number of blocks with an invalid block signature",
		},
	)

	prometheusDuplicateStakes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "idcnode",
			Subsystem: "validator",
			Name:      "duplicate_stakes",
			Help:      "Number of blocks staking an input already used by another block",
		},
	)

	prometheusValidateBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "idcnode",
			Subsystem: "validator",
			Name:      "validate_block",
			Help:      "Histogram of block validation",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)

	prometheusConnectBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "idcnode",
			Subsystem: "validator",
			Name:      "connect_block",
			Help:      "Histogram of connecting a validated block to the stores",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)

	prometheusMoneySupply = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "idcnode",
			Subsystem: "validator",
			Name:      "money_supply",
			Help:      "Transparent money supply, in subunits, at the last recomputation",
		},
	)
}
