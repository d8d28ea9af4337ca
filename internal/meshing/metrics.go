package meshing

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records rebuild counters and timings.
//
// Exposed series:
//   - chunkmesh_rebuilds_total{mode,result}
//   - chunkmesh_rebuild_duration_seconds{mode}
//   - chunkmesh_rebuild_faces
type Metrics struct {
	rebuilds *prometheus.CounterVec
	duration *prometheus.HistogramVec
	faces    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chunkmesh",
			Name:      "rebuilds_total",
			Help:      "Chunk mesh rebuilds by mode and result.",
		}, []string{"mode", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chunkmesh",
			Name:      "rebuild_duration_seconds",
			Help:      "Time spent rebuilding one chunk mesh.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"mode"}),
		faces: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chunkmesh",
			Name:      "rebuild_faces",
			Help:      "Visible faces emitted per successful rebuild.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.rebuilds, m.duration, m.faces)
	}
	return m
}

func (m *Metrics) observe(mode string, d time.Duration, faces int, err error) {
	if err != nil {
		m.rebuilds.WithLabelValues(mode, "error").Inc()
		return
	}
	m.rebuilds.WithLabelValues(mode, "ok").Inc()
	m.duration.WithLabelValues(mode).Observe(d.Seconds())
	m.faces.Observe(float64(faces))
}
