// Package metrics exposes upload workflow counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stmtview/internal/domain"
)

// Outcome label values for the submissions counter.
const (
	OutcomeStarted   = "started"
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// Recorder tracks submissions and the current upload state on its own registry.
type Recorder struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	state       *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with process and Go runtime collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stmtview",
			Name:      "submissions_total",
			Help:      "Statement submissions by outcome.",
		}, []string{"outcome"}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "stmtview",
			Name:      "upload_state",
			Help:      "1 for the current upload state, 0 otherwise.",
		}, []string{"state"}),
	}
	r.registry.MustRegister(
		r.submissions,
		r.state,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, o := range []string{OutcomeStarted, OutcomeSucceeded, OutcomeFailed} {
		r.submissions.WithLabelValues(o)
	}
	r.setState(domain.UploadStateIdle)
	return r
}

// Observe records one controller transition. It matches service.TransitionListener.
func (r *Recorder) Observe(t domain.Transition) {
	switch t.To {
	case domain.UploadStateSubmitting:
		r.submissions.WithLabelValues(OutcomeStarted).Inc()
	case domain.UploadStateSucceeded:
		r.submissions.WithLabelValues(OutcomeSucceeded).Inc()
	case domain.UploadStateFailed:
		r.submissions.WithLabelValues(OutcomeFailed).Inc()
	}
	r.setState(t.To)
}

func (r *Recorder) setState(current domain.UploadState) {
	for _, s := range domain.AllUploadStates {
		v := 0.0
		if s == current {
			v = 1
		}
		r.state.WithLabelValues(string(s)).Set(v)
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns the exposition handler for this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
