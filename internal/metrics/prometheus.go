package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "usersubs"

// Label values for the mutations counter.
const (
	entityUser         = "user"
	entitySubscription = "subscription"

	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// PrometheusRecorder exports domain counters through a Prometheus registry.
type PrometheusRecorder struct {
	mutations *prometheus.CounterVec
}

// NewPrometheus registers the application collectors on reg.
func NewPrometheus(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Successful create, update and delete operations by entity.",
	}, []string{"entity", "operation"})

	if err := reg.Register(mutations); err != nil {
		return nil, err
	}

	// Pre-create series so dashboards see zeros before the first write.
	for _, entity := range []string{entityUser, entitySubscription} {
		for _, op := range []string{opCreate, opUpdate, opDelete} {
			mutations.WithLabelValues(entity, op)
		}
	}

	return &PrometheusRecorder{mutations: mutations}, nil
}

func (p *PrometheusRecorder) IncUserCreated() { p.inc(entityUser, opCreate) }
func (p *PrometheusRecorder) IncUserUpdated() { p.inc(entityUser, opUpdate) }
func (p *PrometheusRecorder) IncUserDeleted() { p.inc(entityUser, opDelete) }

func (p *PrometheusRecorder) IncSubscriptionCreated() { p.inc(entitySubscription, opCreate) }
func (p *PrometheusRecorder) IncSubscriptionUpdated() { p.inc(entitySubscription, opUpdate) }
func (p *PrometheusRecorder) IncSubscriptionDeleted() { p.inc(entitySubscription, opDelete) }

func (p *PrometheusRecorder) inc(entity, op string) {
	p.mutations.WithLabelValues(entity, op).Inc()
}
