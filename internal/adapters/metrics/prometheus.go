package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/trebuchet-org/treb-dao/internal/domain"
)

const namespace = "treb_dao"

// Metrics records governance activity on a private registry
type Metrics struct {
	registry *prometheus.Registry

	daosCreated      prometheus.Counter
	proposalsCreated prometheus.Counter
	votesCast        *prometheus.CounterVec
	voteWeight       *prometheus.CounterVec
	statusChanges    *prometheus.CounterVec
	executions       prometheus.Counter
	errors           *prometheus.CounterVec
	requests         *prometheus.HistogramVec
}

// NewMetrics creates and registers the governance collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		daosCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daos_created_total",
			Help:      "Daos registered.",
		}),
		proposalsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_created_total",
			Help:      "Proposals opened for voting.",
		}),
		votesCast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Ballots accepted, by choice.",
		}, []string{"choice"}),
		voteWeight: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vote_weight_total",
			Help:      "Token weight of accepted ballots, by choice.",
		}, []string{"choice"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposal_status_changes_total",
			Help:      "Proposal lifecycle transitions.",
		}, []string{"from", "to"}),
		executions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_executed_total",
			Help:      "Proposals executed.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Rejected governance operations, by operation and error kind.",
		}, []string{"operation", "kind"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP API latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.daosCreated,
		m.proposalsCreated,
		m.votesCast,
		m.voteWeight,
		m.statusChanges,
		m.executions,
		m.errors,
		m.requests,
	)

	return m
}

// Publish counts a committed governance event
func (m *Metrics) Publish(ctx context.Context, event domain.Event) {
	switch e := event.(type) {
	case domain.DaoCreatedEvent:
		m.daosCreated.Inc()
	case domain.ProposalCreatedEvent:
		m.proposalsCreated.Inc()
	case domain.VoteCastEvent:
		m.votesCast.WithLabelValues(e.Choice).Inc()
		m.voteWeight.WithLabelValues(e.Choice).Add(float64(e.Weight))
	case domain.ProposalStatusChangedEvent:
		m.statusChanges.WithLabelValues(e.From, e.To).Inc()
	case domain.ProposalExecutedEvent:
		m.executions.Inc()
	}
}

// ObserveError counts a rejected operation under its error kind
func (m *Metrics) ObserveError(operation string, err error) {
	if err == nil {
		return
	}
	m.errors.WithLabelValues(operation, string(domain.KindOf(err))).Inc()
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
