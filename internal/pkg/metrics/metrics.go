package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus instruments for the booking core.
type Metrics struct {
	BookingsCreated   prometheus.Counter
	PaymentsConfirmed prometheus.Counter
	SoldOutRejections prometheus.Counter
	CheckIns          prometheus.Counter
	Cancellations     prometheus.Counter
	ErrorsCount       *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings committed in pending status",
		}),
		PaymentsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_confirmed_total",
			Help:      "The total number of bookings approved after payment confirmation",
		}),
		SoldOutRejections: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sold_out_rejections_total",
			Help:      "Booking attempts rejected because no unit was available at commit time",
		}),
		CheckIns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_ins_total",
			Help:      "The total number of bookings checked in with a unit assigned",
		}),
		Cancellations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "The total number of cancelled bookings",
		}),
		ErrorsCount: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors by operation",
		}, []string{"operation"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}
