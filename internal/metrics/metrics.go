// Package metrics records tool dispatch and research pipeline metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Summary outcomes.
const (
	SummaryGenerated = "generated"
	SummarySkipped   = "skipped"
	SummaryFallback  = "fallback"
)

// Recorder observes server activity.
type Recorder interface {
	// ObserveToolCall counts one catalogue tool invocation by outcome.
	ObserveToolCall(tool, outcome string)
	// ObserveAuthorizationCheck counts one provider status query.
	ObserveAuthorizationCheck(status string)
	// ObserveResearch records one research run.
	ObserveResearch(duration time.Duration, items int, failed bool)
	// ObserveSummary records one summarization attempt.
	ObserveSummary(outcome string, duration time.Duration)
}

// Noop discards every observation.
type Noop struct{}

func (Noop) ObserveToolCall(string, string)           {}
func (Noop) ObserveAuthorizationCheck(string)         {}
func (Noop) ObserveResearch(time.Duration, int, bool) {}
func (Noop) ObserveSummary(string, time.Duration)     {}

// Prometheus implements Recorder with client_golang collectors.
type Prometheus struct {
	toolCalls           *prometheus.CounterVec
	authorizationChecks *prometheus.CounterVec
	researchDuration    *prometheus.HistogramVec
	researchItems       prometheus.Histogram
	summaries           *prometheus.CounterVec
	summaryLatency      *prometheus.HistogramVec
}

// NewPrometheus registers collectors on registerer, or the default registerer when nil.
func NewPrometheus(registerer prometheus.Registerer) *Prometheus {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Prometheus{
		toolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolgate_tool_calls_total",
				Help: "Total number of catalogue tool invocations by outcome",
			},
			[]string{"tool", "outcome"},
		),
		authorizationChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolgate_authorization_checks_total",
				Help: "Total number of authorization status queries by result",
			},
			[]string{"status"},
		),
		researchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolgate_research_duration_seconds",
				Help:    "Duration of research runs in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"status"},
		),
		researchItems: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "toolgate_research_items",
				Help:    "Number of summarized items per research run",
				Buckets: []float64{0, 1, 2, 3, 5, 10},
			},
		),
		summaries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolgate_summaries_total",
				Help: "Total number of summarization attempts by outcome",
			},
			[]string{"outcome"},
		),
		summaryLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolgate_summary_latency_seconds",
				Help:    "Latency of summarization model calls in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"outcome"},
		),
	}
}

func (p *Prometheus) ObserveToolCall(tool, outcome string) {
	p.toolCalls.WithLabelValues(tool, outcome).Inc()
}

func (p *Prometheus) ObserveAuthorizationCheck(status string) {
	p.authorizationChecks.WithLabelValues(status).Inc()
}

func (p *Prometheus) ObserveResearch(duration time.Duration, items int, failed bool) {
	status := "success"
	if failed {
		status = "error"
	}
	p.researchDuration.WithLabelValues(status).Observe(duration.Seconds())
	p.researchItems.Observe(float64(items))
}

func (p *Prometheus) ObserveSummary(outcome string, duration time.Duration) {
	p.summaries.WithLabelValues(outcome).Inc()
	if outcome != SummarySkipped {
		p.summaryLatency.WithLabelValues(outcome).Observe(duration.Seconds())
	}
}

// OrNoop returns r, or Noop when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return Noop{}
	}
	return r
}

var (
	_ Recorder = Noop{}
	_ Recorder = (*Prometheus)(nil)
)
