// Package metrics provides Prometheus metrics for workbook exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
)

var (
	// Export metrics
	WorkbooksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelsheet_workbooks_total",
			Help: "Total number of workbook exports by outcome",
		},
		[]string{"source", "status"},
	)

	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modelsheet_export_duration_seconds",
			Help:    "Time taken to build and write one workbook",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	SheetsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelsheet_sheets_built_total",
			Help: "Total number of category sheets built",
		},
		[]string{"source"},
	)

	RowsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelsheet_rows_resolved_total",
			Help: "Total number of element rows written",
		},
		[]string{"source"},
	)

	RowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelsheet_rows_skipped_total",
			Help: "Total number of elements skipped for unparsable labels",
		},
		[]string{"source"},
	)

	// Upstream API metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelsheet_api_calls_total",
			Help: "Total number of model-derivative API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modelsheet_api_call_duration_seconds",
			Help:    "Duration of model-derivative API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// Recorder records export metrics for one source ("cli", "server").
type Recorder struct {
	source string
}

// NewRecorder creates a new metrics recorder.
func NewRecorder(source string) *Recorder {
	return &Recorder{source: source}
}

// RecordWorkbook records a built workbook and the outcome of writing it.
func (r *Recorder) RecordWorkbook(wb models.Workbook, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	WorkbooksTotal.WithLabelValues(r.source, status).Inc()
	ExportDuration.WithLabelValues(r.source).Observe(duration.Seconds())

	SheetsBuilt.WithLabelValues(r.source).Add(float64(len(wb.Tables)))
	for _, t := range wb.Tables {
		RowsResolved.WithLabelValues(r.source).Add(float64(len(t.Rows)))
		RowsSkipped.WithLabelValues(r.source).Add(float64(len(t.Skipped)))
	}
}

// RecordAPICall records a model-derivative API call.
func RecordAPICall(endpoint, status string, duration time.Duration) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
