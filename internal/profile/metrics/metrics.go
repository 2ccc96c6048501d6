package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for profile reads, writes and their side
// effects. All methods are safe on a nil receiver.
type Metrics struct {
	Fetches                  *prometheus.CounterVec
	Sets                     *prometheus.CounterVec
	AvatarActions            *prometheus.CounterVec
	AvatarDeleteFailures     prometheus.Counter
	Credentials              *prometheus.CounterVec
	IdentityCheckElements    prometheus.Histogram
	IdentityCheckMismatches  prometheus.Counter
	PaymentAddressRejections prometheus.Counter
	OperationDuration        *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		Fetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "profiles_fetch_total",
			Help: "Profile fetches by kind (base, versioned, credential) and access mode",
		}, []string{"kind", "access"}),
		Sets: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "profiles_set_total",
			Help: "Accepted profile updates by client platform",
		}, []string{"platform"}),
		AvatarActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "profiles_avatar_actions_total",
			Help: "Avatar lifecycle decisions by action",
		}, []string{"action"}),
		AvatarDeleteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "profiles_avatar_delete_failures_total",
			Help: "Obsolete avatar objects that could not be deleted",
		}),
		Credentials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "profiles_credentials_total",
			Help: "Profile key credential requests by outcome",
		}, []string{"outcome"}),
		IdentityCheckElements: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "profiles_identity_check_elements",
			Help:    "Elements checked per batch identity check after truncation",
			Buckets: []float64{1, 10, 50, 100, 250, 500, 1000},
		}),
		IdentityCheckMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "profiles_identity_check_mismatches_total",
			Help: "Identity key mismatches reported by batch identity checks",
		}),
		PaymentAddressRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "profiles_payment_address_rejections_total",
			Help: "Profile updates rejected for a disallowed payment address region",
		}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "profiles_operation_duration_seconds",
			Help:    "Duration of profile operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementFetch(kind, access string) {
	if m != nil {
		m.Fetches.WithLabelValues(kind, access).Inc()
	}
}

func (m *Metrics) IncrementSet(platform string) {
	if m != nil {
		m.Sets.WithLabelValues(platform).Inc()
	}
}

func (m *Metrics) IncrementAvatarAction(action string) {
	if m != nil {
		m.AvatarActions.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) IncrementAvatarDeleteFailure() {
	if m != nil {
		m.AvatarDeleteFailures.Inc()
	}
}

func (m *Metrics) IncrementCredential(outcome string) {
	if m != nil {
		m.Credentials.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveIdentityCheck(elements, mismatches int) {
	if m != nil {
		m.IdentityCheckElements.Observe(float64(elements))
		m.IdentityCheckMismatches.Add(float64(mismatches))
	}
}

func (m *Metrics) IncrementPaymentAddressRejection() {
	if m != nil {
		m.PaymentAddressRejections.Inc()
	}
}

// ObserveOperation records the duration of an operation started at start.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m != nil {
		m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
