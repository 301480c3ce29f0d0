package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CustodyMetrics records workflow engine activity.
type CustodyMetrics struct {
	operations  *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewCustodyMetrics registers the custody metrics on the provided registerer.
func NewCustodyMetrics(reg prometheus.Registerer) *CustodyMetrics {
	if reg == nil {
		return &CustodyMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "custody_operations_total",
		Help: "Custody workflow operations by outcome.",
	}, []string{"operation", "outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "custody_transitions_total",
		Help: "Custody request transitions by target status and outcome.",
	}, []string{"target", "outcome"})
	reg.MustRegister(operations, transitions)
	return &CustodyMetrics{
		operations:  operations,
		transitions: transitions,
	}
}

// IncOperation counts one workflow operation with its outcome.
func (c *CustodyMetrics) IncOperation(operation string, err error) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation), outcomeLabel(err)).Inc()
}

// IncTransition counts one transition attempt toward the target status.
func (c *CustodyMetrics) IncTransition(target string, err error) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(target), outcomeLabel(err)).Inc()
}

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
