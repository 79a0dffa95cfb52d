// Package metrics defines the custom Prometheus metrics of the blog API.
// HTTP request metrics come from echoprometheus; these cover the auth and
// content events that request counts alone do not explain.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Auth ─────────────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts POST /login outcomes.
// Label result: "success", "invalid_credentials" or "error".
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests turned away by the bearer gate.
// Label reason: "missing_header", "malformed_header" or "invalid_token".
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the authentication gate.",
	},
	[]string{"reason"},
)

var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts created.",
	},
)

// ── Posts ────────────────────────────────────────────────────────────────────

// PostMutationsTotal counts create/update/delete calls.
// Labels:
//   - op: "create", "update" or "delete"
//   - outcome: "ok", "forbidden", "not_found" or "error"
var PostMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "post_mutations_total",
		Help:      "Total number of post mutations, by operation and outcome.",
	},
	[]string{"op", "outcome"},
)

// VotesTotal counts applied votes. Label dir: "add" or "remove".
var VotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "Total number of votes applied, by direction.",
	},
	[]string{"dir"},
)
