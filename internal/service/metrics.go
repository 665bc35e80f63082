package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeSuccess            = "success"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeDuplicateUsername  = "duplicate_username"
	outcomeDuplicateEmail     = "duplicate_email"
	outcomeConflict           = "conflict"
	outcomeError              = "error"
)

// Metrics counts authentication outcomes.
type Metrics struct {
	loginAttempts *prometheus.CounterVec
	registrations *prometheus.CounterVec
}

// NewMetrics registers the auth counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		loginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Registration attempts by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) login(outcome string) {
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) registration(outcome string) {
	m.registrations.WithLabelValues(outcome).Inc()
}
