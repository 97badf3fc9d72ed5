// Package metrics defines and registers all custom Prometheus metrics for the
// linkboard API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry at
// package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "linkboard"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts that reached credential verification.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created.",
	},
)

// RateLimitedTotal counts login attempts rejected by the rate limiter before
// any credential check ran.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of login attempts rejected by the rate limiter.",
	},
)

// ── Article metrics ───────────────────────────────────────────────────────────

// ArticlesCreatedTotal counts newly shared links.
var ArticlesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_created_total",
		Help:      "Total number of articles created.",
	},
)

// ArticlesDeletedTotal counts delete attempts that passed the existence check.
// Label:
//   - outcome: "deleted" or "forbidden"
var ArticlesDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "articles_deleted_total",
		Help:      "Total number of article delete attempts, by outcome.",
	},
	[]string{"outcome"},
)
