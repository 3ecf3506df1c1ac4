package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsCopiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgreplicate_rows_copied_total",
			Help: "Total number of rows converted and written to the sink",
		},
		[]string{"table"},
	)

	bytesReadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgreplicate_bytes_read_total",
			Help: "Total number of COPY stream bytes read from the source",
		},
		[]string{"table"},
	)

	rowErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pgreplicate_row_errors_total",
			Help: "Total number of rows that failed to parse or persist",
		},
		[]string{"table", "stage"},
	)

	copyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pgreplicate_copy_duration_seconds",
			Help:    "Duration of full table copies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table"},
	)
)
