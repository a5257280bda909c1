package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Adapter operation labels.
const (
	OpMapping   = "mapping"
	OpExtract   = "extract"
	OpTranslate = "translate"
	OpDecode    = "decode"

	ResultOK     = "ok"
	ResultNone   = "none"
	ResultError  = "error"
	ResultFailed = "failed"
)

// Translation and indexing Prometheus metrics.
var (
	AdapterOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogsearch",
			Name:      "adapter_operations_total",
			Help:      "Adapter operations by index kind, operation and outcome",
		},
		[]string{"kind", "op", "result"}, // result: ok / none / error
	)

	DocumentsIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogsearch",
			Name:      "documents_indexed_total",
			Help:      "Documents written to the search index",
		},
		[]string{"result"}, // ok / failed
	)

	IndexingBatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "catalogsearch",
			Name:      "indexing_batch_duration_seconds",
			Help:      "Duration of batch indexing requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

var registerAdapterOnce sync.Once

// RegisterAdapterMetrics registers translation and indexing metrics. Call it from main.
func RegisterAdapterMetrics() {
	registerAdapterOnce.Do(func() {
		prometheus.MustRegister(AdapterOperationsTotal)
		prometheus.MustRegister(DocumentsIndexedTotal)
		prometheus.MustRegister(IndexingBatchDuration)
	})
}

// ObserveAdapter counts one adapter operation.
func ObserveAdapter(kind, op, result string) {
	AdapterOperationsTotal.WithLabelValues(kind, op, result).Inc()
}
