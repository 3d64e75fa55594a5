package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"lendflow/internal/model"
)

// Metrics are the business counters exported next to the HTTP metrics.
// A nil *Metrics records nothing.
type Metrics struct {
	applicationsCreated prometheus.Counter
	decisions           *prometheus.CounterVec
}

// NewMetrics registers the business counters on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		applicationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "loan_applications_created_total",
			Help: "Total number of loan applications submitted.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_application_decisions_total",
			Help: "Total number of loan application status changes by resulting status.",
		}, []string{"status"}),
	}
	for _, c := range []prometheus.Collector{m.applicationsCreated, m.decisions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) applicationCreated() {
	if m == nil {
		return
	}
	m.applicationsCreated.Inc()
}

func (m *Metrics) decision(status model.ApplicationStatus) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(string(status)).Inc()
}
