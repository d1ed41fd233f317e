// Package metrics provides Prometheus metrics for the segno score engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Stream metrics - production and fork behavior
	eventsProduced  prometheus.Counter
	streamsForked   prometheus.Counter
	forkBufferDepth prometheus.Gauge

	// Repair metrics - recoverable data-quality fixes applied during replay
	repairsApplied *prometheus.CounterVec

	// Effector metrics
	effectorLatency *prometheus.HistogramVec

	// Traversal metrics
	chordBuckets  prometheus.Counter
	stateRebuilds prometheus.Counter

	// Real-time metrics - device boundary behavior
	realtimeInjections prometheus.Counter
	deviceSendLatency  prometheus.Histogram
	deviceEventsIn     prometheus.Counter
	deviceEventsOut    prometheus.Counter
}

// Repair kinds recorded by RecordRepair.
const (
	RepairOrphanNoteOff    = "orphan_note_off"
	RepairUnterminatedNote = "unterminated_note"
	RepairOffsetClamped    = "offset_clamped"
)

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "segno",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsProduced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_produced_total",
		Help:      "Total number of events produced by stream cursors",
	})

	m.streamsForked = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "streams_forked_total",
		Help:      "Total number of tee forks created",
	})

	m.forkBufferDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fork_buffer_depth",
		Help:      "Current depth of the most recently grown tee replay buffer",
	})

	m.repairsApplied = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "repairs_applied_total",
			Help:      "Recoverable data-quality repairs applied during replay, by kind",
		},
		[]string{"kind"},
	)

	m.effectorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "effector_latency_milliseconds",
			Help:      "Wall-clock latency of effector application on finite scores",
			Buckets:   m.histogramBuckets,
		},
		[]string{"effector"},
	)

	m.chordBuckets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "chord_buckets_total",
		Help:      "Total number of chord buckets yielded by segmentation",
	})

	m.stateRebuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state_rebuilds_total",
		Help:      "Total number of point-in-time state reconstructions",
	})

	m.realtimeInjections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "realtime_injections_total",
		Help:      "Total number of synthetic wake-up events scheduled on real-time streams",
	})

	m.deviceSendLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "device_send_latency_milliseconds",
		Help:      "Latency of non-blocking event queueing at the device boundary",
		Buckets:   m.histogramBuckets,
	})

	m.deviceEventsIn = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "device_events_in_total",
		Help:      "Total number of events received from the device boundary",
	})

	m.deviceEventsOut = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "device_events_out_total",
		Help:      "Total number of events sent to the device boundary",
	})
}

// Stream Metrics Functions.

// RecordEventProduced increments the produced events counter.
func RecordEventProduced() {
	globalManager.eventsProduced.Inc()
}

// RecordStreamForked increments the tee fork counter.
func RecordStreamForked() {
	globalManager.streamsForked.Inc()
}

// UpdateForkBufferDepth sets the current tee replay buffer depth.
func UpdateForkBufferDepth(depth int) {
	globalManager.forkBufferDepth.Set(float64(depth))
}

// Repair and Effector Metrics Functions.

// RecordRepair increments the repair counter for the given kind.
func RecordRepair(kind string) {
	globalManager.repairsApplied.WithLabelValues(kind).Inc()
}

// RecordEffectorLatency records effector application latency.
func RecordEffectorLatency(effector string, latencyMs float64) {
	globalManager.effectorLatency.WithLabelValues(effector).Observe(latencyMs)
}

// Traversal Metrics Functions.

// RecordChordBucket increments the chord bucket counter.
func RecordChordBucket() {
	globalManager.chordBuckets.Inc()
}

// RecordStateRebuild increments the state reconstruction counter.
func RecordStateRebuild() {
	globalManager.stateRebuilds.Inc()
}

// Real-time Metrics Functions.

// RecordRealtimeInjection increments the wake-up injection counter.
func RecordRealtimeInjection() {
	globalManager.realtimeInjections.Inc()
}

// RecordDeviceSendLatency records device queueing latency.
func RecordDeviceSendLatency(latencyMs float64) {
	globalManager.deviceSendLatency.Observe(latencyMs)
}

// RecordDeviceEventIn increments the received device events counter.
func RecordDeviceEventIn() {
	globalManager.deviceEventsIn.Inc()
}

// RecordDeviceEventOut increments the sent device events counter.
func RecordDeviceEventOut() {
	globalManager.deviceEventsOut.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
