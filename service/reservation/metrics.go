package reservation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"strconv"
	"time"
)

const (
	resultAdmitted      = "admitted"
	resultReduced       = "reduced"
	resultFullyReserved = "fully_reserved"
	resultBusy          = "busy"
)

// Metrics of the reservation engine
type Metrics struct {
	admissions    *prometheus.CounterVec
	lockWait      prometheus.Histogram
	fundRemaining *prometheus.GaugeVec
	fundReserved  *prometheus.GaugeVec
}

// NewMetrics registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		admissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "offer_reserve",
			Name:      "admissions_total",
			Help:      "Capacity admission attempts by result",
		}, []string{"operation", "result"}),

		lockWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "offer_reserve",
			Name:      "campaign_lock_wait_seconds",
			Help:      "Time spent waiting for the campaign lock",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 3},
		}),

		fundRemaining: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "offer_reserve",
			Name:      "fund_remaining_units",
			Help:      "Remaining capacity of launched campaigns",
		}, []string{"campaign_id"}),

		fundReserved: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "offer_reserve",
			Name:      "fund_reserved_units",
			Help:      "Reserved capacity of launched campaigns",
		}, []string{"campaign_id"}),
	}
}

func (m *Metrics) observeAdmission(op Operation, result string) {
	m.admissions.WithLabelValues(op.String(), result).Inc()
}

func (m *Metrics) observeLockWait(d time.Duration) {
	m.lockWait.Observe(d.Seconds())
}

func (m *Metrics) setFund(campaignID int64, fund Fund) {
	label := strconv.FormatInt(campaignID, 10)
	remaining, _ := fund.Remaining().Float64()
	reserved, _ := fund.Reserved().Float64()
	m.fundRemaining.WithLabelValues(label).Set(remaining)
	m.fundReserved.WithLabelValues(label).Set(reserved)
}
