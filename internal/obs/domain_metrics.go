package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuotesTotal counts quote calculations by bundle kind and outcome.
	QuotesTotal *prometheus.CounterVec
	// QuoteExportsTotal counts XLSX workbook downloads by outcome.
	QuoteExportsTotal *prometheus.CounterVec
	// QuoteUserPaysEuros records the customer final price distribution.
	QuoteUserPaysEuros prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuotesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Count of quote calculations by bundle kind and outcome.",
		}, []string{"bundle", "result"})
		QuoteExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_exports_total",
			Help:      "Count of quote workbook exports by outcome.",
		}, []string{"result"})
		QuoteUserPaysEuros = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_user_pays_eur",
			Help:      "Distribution of the customer final price per quote in euros.",
			Buckets:   []float64{500, 1000, 1500, 2000, 3000, 5000, 10000, 25000, 50000},
		})

		mustRegisterCollector(reg, QuotesTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuotesTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteExportsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteExportsTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteUserPaysEuros, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				QuoteUserPaysEuros = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
