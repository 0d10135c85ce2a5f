package signup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts signup outcomes at the pipeline edge. Rule-level metrics
// live with the checker; these cover the host flow itself.
type Metrics struct {
	Created  prometheus.Counter
	Rejected prometheus.Counter
}

// NewMetrics registers the signup metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Created: f.NewCounter(prometheus.CounterOpts{
			Name: "reggate_signups_created_total",
			Help: "Signups that passed gatekeeping and completed.",
		}),
		Rejected: f.NewCounter(prometheus.CounterOpts{
			Name: "reggate_signups_rejected_total",
			Help: "Signups blocked by gatekeeping.",
		}),
	}
}

func (m *Metrics) observe(created bool) {
	if m == nil {
		return
	}
	if created {
		m.Created.Inc()
	} else {
		m.Rejected.Inc()
	}
}
