package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder exports build statistics as Prometheus metrics.
type Recorder struct {
	builds   prometheus.Counter
	duration prometheus.Histogram
	nodes    prometheus.Gauge
	edges    *prometheus.GaugeVec
	classes  *prometheus.GaugeVec
	halted   *prometheus.GaugeVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		builds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rulial_graph_builds_total",
			Help: "Total number of rulial graphs built",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rulial_graph_build_duration_seconds",
			Help:    "Duration of rulial graph builds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rulial_machines",
			Help: "Number of enumerated machines in the last build",
		}),
		edges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rulial_graph_edges",
			Help: "Directed edges by step limit",
		}, []string{"step_limit"}),
		classes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rulial_graph_classes",
			Help: "Equivalence classes by step limit",
		}, []string{"step_limit"}),
		halted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rulial_machines_halted",
			Help: "Machines halting before the step limit",
		}, []string{"step_limit"}),
	}

	for _, c := range []prometheus.Collector{r.builds, r.duration, r.nodes, r.edges, r.classes, r.halted} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe records one finished build.
func (r *Recorder) Observe(s Stats, elapsed time.Duration) {
	label := strconv.Itoa(s.StepLimit)
	r.builds.Inc()
	r.duration.Observe(elapsed.Seconds())
	r.nodes.Set(float64(s.Nodes))
	r.edges.WithLabelValues(label).Set(float64(s.Edges))
	r.classes.WithLabelValues(label).Set(float64(s.Classes))
	r.halted.WithLabelValues(label).Set(float64(s.Halted))
}
