// ABOUTME: Prometheus metrics for chat replies, provider attempts and evaluation records
// ABOUTME: Constructed against an explicit registerer so tests get isolated registries
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Reply sources
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Evaluation record outcomes
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Metrics holds every collector the service exports
type Metrics struct {
	ChatResponses     *prometheus.CounterVec
	ProviderAttempts  prometheus.Histogram
	EvaluationRecords *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what most tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChatResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planttexts",
			Name:      "chat_responses_total",
			Help:      "Chat replies by source (model or fallback).",
		}, []string{"source"}),
		ProviderAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planttexts",
			Name:      "provider_attempts",
			Help:      "Provider calls made per chat reply.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		}),
		EvaluationRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planttexts",
			Name:      "evaluation_records_total",
			Help:      "Evaluation records by outcome (sent, failed, dropped).",
		}, []string{"result"}),
	}

	// Pre-create label values so they export as zero
	for _, s := range []string{SourceModel, SourceFallback} {
		m.ChatResponses.WithLabelValues(s)
	}
	for _, r := range []string{ResultSent, ResultFailed, ResultDropped} {
		m.EvaluationRecords.WithLabelValues(r)
	}

	if reg != nil {
		reg.MustRegister(m.ChatResponses, m.ProviderAttempts, m.EvaluationRecords)
	}
	return m
}

// ObserveReply records one chat reply
func (m *Metrics) ObserveReply(fallback bool, attempts int) {
	if m == nil {
		return
	}
	source := SourceModel
	if fallback {
		source = SourceFallback
	}
	m.ChatResponses.WithLabelValues(source).Inc()
	m.ProviderAttempts.Observe(float64(attempts))
}

// ObserveEvaluation records the outcome of one evaluation record
func (m *Metrics) ObserveEvaluation(result string) {
	if m == nil {
		return
	}
	m.EvaluationRecords.WithLabelValues(result).Inc()
}
