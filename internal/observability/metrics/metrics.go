package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the submission pipeline.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	rejectionsTotal  *prometheus.CounterVec
	pipelineLatency  prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ajm",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total contact-form submissions by outcome",
		}, []string{"outcome"}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ajm",
			Subsystem: "leads",
			Name:      "rejections_total",
			Help:      "Rejected submissions by machine code",
		}, []string{"code"}),
		pipelineLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ajm",
			Subsystem: "leads",
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end latency of lead submission handling",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.rejectionsTotal, m.pipelineLatency)
	return m
}

// ObserveAccepted counts a persisted lead.
func (m *LeadMetrics) ObserveAccepted() {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues("accepted").Inc()
}

// ObserveHoneypot counts a silently dropped bot submission.
func (m *LeadMetrics) ObserveHoneypot() {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues("honeypot").Inc()
}

// ObserveRejected counts a rejection under its machine code.
func (m *LeadMetrics) ObserveRejected(code string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues("rejected").Inc()
	m.rejectionsTotal.WithLabelValues(code).Inc()
}

// ObserveLatency records pipeline duration in seconds.
func (m *LeadMetrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.pipelineLatency.Observe(seconds)
}
