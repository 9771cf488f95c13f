// Package metrics provides Prometheus collectors for the account service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the interface the service layer records through.
type Recorder interface {
	RecordSignup(role, outcome string)
	RecordSignIn(outcome string)
	RecordReconciliation(result string)
	RecordApproval(decision string)
}

// Signup/sign-in outcomes and reconciliation results.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomePending  = "pending_approval"

	ReconcileTrigger  = "trigger"
	ReconcileFallback = "fallback"
	ReconcileConflict = "conflict"
	ReconcileDegraded = "degraded"
)

// Collector implements Recorder backed by Prometheus counters.
type Collector struct {
	signups        *prometheus.CounterVec
	signins        *prometheus.CounterVec
	reconciliation *prometheus.CounterVec
	approvals      *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "account_signup_total",
			Help: "Signup attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		signins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "account_signin_total",
			Help: "Sign-in attempts by outcome.",
		}, []string{"outcome"}),
		reconciliation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "account_profile_reconciliation_total",
			Help: "How signup profiles were materialized: trigger, fallback insert, conflict re-fetch, or degraded in-memory.",
		}, []string{"result"}),
		approvals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "account_rider_approval_total",
			Help: "Rider approval decisions applied by admins.",
		}, []string{"decision"}),
	}

	reg.MustRegister(c.signups, c.signins, c.reconciliation, c.approvals)
	return c
}

func (c *Collector) RecordSignup(role, outcome string) {
	c.signups.WithLabelValues(role, outcome).Inc()
}

func (c *Collector) RecordSignIn(outcome string) {
	c.signins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordReconciliation(result string) {
	c.reconciliation.WithLabelValues(result).Inc()
}

func (c *Collector) RecordApproval(decision string) {
	c.approvals.WithLabelValues(decision).Inc()
}
