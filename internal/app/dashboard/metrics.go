package dashboard

import (
	"strings"

	"github.com/dalemusser/safetyapp/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK       = "ok"
	outcomeFallback = "fallback"
	outcomeError    = "error"
	outcomeCanceled = "canceled"
)

// Collector counts dashboard loads and fallbacks. A nil Collector is a
// no-op.
type Collector struct {
	loads     *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
}

// NewCollector registers the dashboard counters with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safetyapp_dashboard_loads_total",
			Help: "Dashboard loads by role and outcome.",
		}, []string{"role", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "safetyapp_dashboard_fallbacks_total",
			Help: "Dashboard groups replaced by fallback data.",
		}, []string{"group"}),
	}
	reg.MustRegister(c.loads, c.fallbacks)
	return c
}

func (c *Collector) load(role models.Role, outcome string) {
	if c == nil {
		return
	}
	c.loads.WithLabelValues(string(role), outcome).Inc()
}

func (c *Collector) fallback(group string) {
	if c == nil {
		return
	}
	// one series for all sections
	if strings.HasPrefix(group, groupSection) {
		group = "section"
	}
	c.fallbacks.WithLabelValues(group).Inc()
}
