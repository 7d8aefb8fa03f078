package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ToolCallsTotal counts tool invocations by outcome.
	ToolCallsTotal *prometheus.CounterVec

	ToolDuration *prometheus.HistogramVec

	// TaskPollsTotal counts finished poll loops by terminal outcome.
	TaskPollsTotal *prometheus.CounterVec

	VendorRequestDuration *prometheus.HistogramVec
)

func init() {
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doubao",
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations",
		},
		[]string{"tool", "status"},
	)

	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "doubao",
			Subsystem: "mcp",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"tool"},
	)

	TaskPollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doubao",
			Subsystem: "mcp",
			Name:      "task_polls_total",
			Help:      "Video task poll loops by terminal outcome",
		},
		[]string{"outcome"},
	)

	VendorRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "doubao",
			Subsystem: "mcp",
			Name:      "vendor_request_duration_seconds",
			Help:      "Ark API response time in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)

	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(ToolDuration)
	prometheus.MustRegister(TaskPollsTotal)
	prometheus.MustRegister(VendorRequestDuration)
}

// RecordToolCall records a finished tool invocation.
func RecordToolCall(tool, status string, durationSec float64) {
	if status == "" {
		status = "unknown"
	}
	ToolCallsTotal.WithLabelValues(tool, status).Inc()
	ToolDuration.WithLabelValues(tool).Observe(durationSec)
}

func RecordTaskPoll(outcome string) {
	TaskPollsTotal.WithLabelValues(outcome).Inc()
}

func RecordVendorRequest(operation string, durationSec float64) {
	VendorRequestDuration.WithLabelValues(operation).Observe(durationSec)
}
