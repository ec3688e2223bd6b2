package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analysesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyses_started_total",
		Help: "Total analyses started",
	})

	analysesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analyses_completed_total",
		Help: "Total analyses completed",
	})

	analysesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analyses_failed_total",
		Help: "Total analyses failed by error code",
	}, []string{"error_code"})

	ocrFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "conversion_ocr_fallback_total",
		Help: "Total conversions that went through the OCR fallback",
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_duration_seconds",
		Help:    "End-to-end analysis duration in seconds",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysesStarted.Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysesCompleted.Inc()
}

// IncAnalysisFailed increments the failed counter for the given error code.
func IncAnalysisFailed(errorCode string) {
	analysesFailed.WithLabelValues(errorCode).Inc()
}

// IncOCRFallback increments the OCR fallback counter.
func IncOCRFallback() {
	ocrFallbacks.Inc()
}

// ObserveAnalysisDuration records an end-to-end analysis duration.
func ObserveAnalysisDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	analysisDuration.Observe(seconds)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
