// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccessDecisions counts gate outcomes by reason (admin, portal_role,
	// unauthenticated, forbidden, ...).
	AccessDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enscho",
		Name:      "access_decisions_total",
		Help:      "Access policy decisions by outcome and reason.",
	}, []string{"outcome", "reason"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enscho",
		Name:      "logins_total",
		Help:      "Login attempts by form and result.",
	}, []string{"form", "result"})

	OwnershipDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enscho",
		Name:      "ownership_denials_total",
		Help:      "Mutations rejected because the actor is not the author.",
	}, []string{"entity"})

	LegacyPasswordUpgrades = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "enscho",
		Name:      "legacy_password_upgrades_total",
		Help:      "Plaintext stored passwords rehashed with bcrypt on login.",
	})

	CSRFRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "enscho",
		Name:      "csrf_rejections_total",
		Help:      "State-changing requests rejected for a missing or wrong CSRF token.",
	})

	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "enscho",
		Name:      "ppdb_registrations_total",
		Help:      "PPDB registrations submitted.",
	})
)
