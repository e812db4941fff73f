package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DispatchResolutionsTotal counts cold-cache resolutions per function and
	// chosen variant. Under a first-use race a function may resolve more than once.
	DispatchResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multiversion_dispatch_resolutions_total",
			Help: "Total number of dispatch resolutions by function, variant and strategy",
		},
		[]string{"function", "variant", "strategy"},
	)

	// DispatchSelectedIndex exposes the cached selector (1=default, 2+=registered target)
	DispatchSelectedIndex = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "multiversion_dispatch_selected_index",
			Help: "Selected variant index per function (1=default, 2+=registered targets in priority order)",
		},
		[]string{"function"},
	)

	// DispatchDetectionSeconds measures how long the detection walk took
	DispatchDetectionSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "multiversion_dispatch_detection_seconds",
			Help:    "Time spent walking the variant registry and probing CPU features",
			Buckets: []float64{1e-7, 5e-7, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3},
		},
		[]string{"function"},
	)

	// DispatchersTotal counts dispatchers constructed per effective strategy
	DispatchersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multiversion_dispatchers_total",
			Help: "Total number of dispatchers constructed by effective strategy",
		},
		[]string{"strategy"},
	)

	// FeatureProbesTotal counts calls into the platform feature probes
	FeatureProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multiversion_feature_probes_total",
			Help: "Total number of CPU feature probes by architecture, feature and result",
		},
		[]string{"arch", "feature", "result"},
	)

	// FeatureProbesSkipped counts probes avoided through the implication table
	FeatureProbesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multiversion_feature_probes_skipped_total",
			Help: "Total number of feature probes skipped because a confirmed feature implies them",
		},
		[]string{"arch"},
	)

	// RegistryErrorsTotal counts rejected registry and dispatcher setups by error kind
	RegistryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "multiversion_registry_errors_total",
			Help: "Total number of rejected multiversion setups by error kind",
		},
		[]string{"kind"},
	)
)

// ProbeResult renders a probe outcome as a label value.
func ProbeResult(ok bool) string {
	if ok {
		return "present"
	}
	return "absent"
}
