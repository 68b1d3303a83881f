package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "essay_panel_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Business metrics
	EssaysSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "essay_panel_essays_submitted_total",
			Help: "Total essay submissions accepted",
		},
	)

	PushMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "essay_panel_push_messages_total",
			Help: "Total per-subscriber push sends",
		},
		[]string{"result"}, // "delivered" or "failed"
	)

	WebhookMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "essay_panel_webhook_messages_total",
			Help: "Total inbound webhook messages",
		},
		[]string{"type"},
	)

	TokenFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "essay_panel_token_fetches_total",
			Help: "Total access token fetches",
		},
		[]string{"result"}, // "success" or "error"
	)
)
