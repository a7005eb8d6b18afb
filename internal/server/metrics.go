package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SubmissionsAccepted prometheus.Counter
	SubmissionsRejected *prometheus.CounterVec
	RateLimited         prometheus.Counter
	CommunityTotal      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "debirun_score_submissions_accepted_total",
			Help: "Score submissions applied to the ledger.",
		}),
		SubmissionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "debirun_score_submissions_rejected_total",
			Help: "Score submissions rejected, by reason.",
		}, []string{"reason"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "debirun_rate_limited_total",
			Help: "Requests denied by the per-IP rate limiter.",
		}),
		CommunityTotal: factory.NewGauge(prometheus.GaugeOpts{
			Name: "debirun_community_total",
			Help: "Last observed community click total.",
		}),
	}
}
