package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters and a latency histogram for served HTTP requests,
// a histogram for store query duration and counters for employee operations.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DBQueryDuration     *prometheus.HistogramVec
	EmployeeOperations  *prometheus.CounterVec
	EmailConflicts      prometheus.Counter
}

// NewMetrics creates a new Metrics instance registered on the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "staffbook_http_requests_total",
			Help: "Total number of HTTP requests served by the API.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staffbook_http_request_duration_seconds",
			Help:    "Latency of HTTP requests served by the API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staffbook_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'create_employee', 'list_employees', ...
		EmployeeOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "staffbook_employee_operations_total",
			Help: "Employee operations by outcome.",
		}, []string{"operation", "result"}),
		EmailConflicts: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "staffbook_email_conflicts_total",
			Help: "Total number of writes rejected because the email already belongs to another employee.",
		}),
	}

	for _, operation := range []string{"create", "list", "get", "update", "delete"} {
		for _, result := range []string{ResultSuccess, ResultFailure, ResultNotFound, ResultConflict} {
			metrics.EmployeeOperations.WithLabelValues(operation, result)
		}
	}

	return metrics
}

const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultNotFound = "not_found"
	ResultConflict = "conflict"
)
