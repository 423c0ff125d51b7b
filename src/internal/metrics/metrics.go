package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LedgerOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invest_ledger_balance_operations_total",
		Help: "Balance mutations, labeled by operation and outcome",
	}, []string{"operation", "outcome"})

	InvestmentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invest_ledger_investments_created_total",
		Help: "Investments opened, labeled by pack name",
	}, []string{"pack"})

	InvestmentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invest_ledger_investments_completed_total",
		Help: "Investments persisted as completed by the maturity sweep",
	})

	CommissionsPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invest_ledger_referral_commissions_total",
		Help: "Referral commissions recorded",
	})

	TransactionResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invest_ledger_transaction_resolutions_total",
		Help: "Pending transactions resolved, labeled by type and decision",
	}, []string{"type", "decision"})

	KYCReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invest_ledger_kyc_reviews_total",
		Help: "KYC reviews, labeled by decision",
	}, []string{"decision"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invest_ledger_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invest_ledger_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
