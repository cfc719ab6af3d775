package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	BookingsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Bookings created, labelled by whether the calendar event was created",
	}, []string{"calendar_created"})

	CalendarAPIErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_api_errors_total",
		Help: "Calendar provider errors by operation",
	}, []string{"operation"})

	CalendarSharesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "calendar_shares_total",
		Help: "Calendar ACL grants issued",
	})

	LedgerEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_ledger_entries_total",
		Help: "Inventory ledger entries written, by change type",
	}, []string{"change_type"})

	LedgerWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_ledger_write_errors_total",
		Help: "Ledger writes that failed and were swallowed",
	})
)
