package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AllocationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "masterdata_code_allocation_attempts_total",
		Help: "Code allocation attempts, including retries.",
	}, []string{"entity"})

	AllocationConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "masterdata_code_allocation_conflicts_total",
		Help: "Candidate codes rejected by the uniqueness constraint.",
	}, []string{"entity"})

	AllocationExhausted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "masterdata_code_allocation_exhausted_total",
		Help: "Allocations that failed after the retry bound.",
	}, []string{"entity"})

	AllocationFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "masterdata_code_allocation_fallbacks_total",
		Help: "Allocations that used the timestamp-derived fallback code.",
	}, []string{"entity"})
)
