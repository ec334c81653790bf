// Package metrics defines and registers all custom Prometheus metrics for the
// ideawall API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry at package init and
// are exposed through the /metrics endpoint wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ideawall"

// ── Follow workflow metrics ───────────────────────────────────────────────────

// FollowRequestsTotal counts follow request creations.
// Label:
//   - outcome: "created" or "replayed"
var FollowRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follow_requests_total",
		Help:      "Total number of follow requests created, by outcome.",
	},
	[]string{"outcome"},
)

// FollowResponsesTotal counts settled follow requests.
// Label:
//   - status: "accepted" or "rejected"
var FollowResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "follow_responses_total",
		Help:      "Total number of follow requests settled, by final status.",
	},
	[]string{"status"},
)

// ── Idea metrics ──────────────────────────────────────────────────────────────

// IdeasCreatedTotal counts newly published ideas.
// Label:
//   - visibility: "public", "protected", or "private"
var IdeasCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ideas_created_total",
		Help:      "Total number of ideas created, by visibility.",
	},
	[]string{"visibility"},
)

// ── Feed metrics ──────────────────────────────────────────────────────────────

// FeedRequestsTotal counts feed reads.
// Label:
//   - kind: "author", "own", or "global"
var FeedRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_requests_total",
		Help:      "Total number of feed reads, by feed kind.",
	},
	[]string{"kind"},
)

// FeedResolveDuration measures how long resolving a feed takes end-to-end.
// Label:
//   - kind: "author", "own", or "global"
var FeedResolveDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_resolve_duration_seconds",
		Help:      "Duration of feed resolution from request to response.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"kind"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// RelationEventsEnqueuedTotal counts audit events handed to the dispatcher.
// Label:
//   - action: the relation action (e.g. "request_accepted")
var RelationEventsEnqueuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relation_events_enqueued_total",
		Help:      "Total number of relation audit events enqueued, by action.",
	},
	[]string{"action"},
)
