package metrics

import (
	"fmt"
	"time"

	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes simulation run metrics
type Collector struct {
	gatherer prometheus.Gatherer

	RunsTotal             *prometheus.CounterVec
	RunDuration           prometheus.Histogram
	AggregateCapacity     *prometheus.HistogramVec
	WaterFillIterations   prometheus.Histogram
	ScenarioWarnings      prometheus.Counter
	LastAggregateCapacity prometheus.Gauge
}

// NewCollector registers the simulation metrics against the provided registerer
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mimo_runs_total",
		Help: "Simulation runs by allocation policy and outcome.",
	}, []string{"policy", "outcome"})
	runs, err := registerCounterVec(reg, runs, "mimo_runs_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mimo_run_duration_seconds",
		Help:    "Wall clock duration of a simulation run.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
	duration, err = registerHistogram(reg, duration, "mimo_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	capacity := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mimo_aggregate_capacity_bits_per_hz",
		Help:    "Aggregate capacity of a run in bit/s/Hz.",
		Buckets: prometheus.LinearBuckets(0, 10, 20),
	}, []string{"policy"})
	capacity, err = registerHistogramVec(reg, capacity, "mimo_aggregate_capacity_bits_per_hz")
	if err != nil {
		return nil, err
	}

	iterations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mimo_waterfilling_iterations",
		Help:    "Water level corrections needed by water filling.",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
	})
	iterations, err = registerHistogram(reg, iterations, "mimo_waterfilling_iterations")
	if err != nil {
		return nil, err
	}

	warnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mimo_scenario_warnings_total",
		Help: "Warnings raised while resolving scenarios.",
	})
	warnings, err = registerCounter(reg, warnings, "mimo_scenario_warnings_total")
	if err != nil {
		return nil, err
	}

	last := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mimo_last_aggregate_capacity_bits_per_hz",
		Help: "Aggregate capacity of the most recent run.",
	})
	last, err = registerGauge(reg, last, "mimo_last_aggregate_capacity_bits_per_hz")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:              gatherer,
		RunsTotal:             runs,
		RunDuration:           duration,
		AggregateCapacity:     capacity,
		WaterFillIterations:   iterations,
		ScenarioWarnings:      warnings,
		LastAggregateCapacity: last,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveRun records a completed run
func (c *Collector) ObserveRun(policy string, d time.Duration, capacity float64, iterations int) {
	if c == nil {
		return
	}
	c.RunsTotal.WithLabelValues(policy, "success").Inc()
	c.RunDuration.Observe(d.Seconds())
	c.AggregateCapacity.WithLabelValues(policy).Observe(capacity)
	c.LastAggregateCapacity.Set(capacity)
	if policy == model.PolicyWaterFilling {
		c.WaterFillIterations.Observe(float64(iterations))
	}
}

// IncFailures counts a run that returned an error
func (c *Collector) IncFailures(policy string) {
	if c == nil {
		return
	}
	c.RunsTotal.WithLabelValues(policy, "failure").Inc()
}

// AddWarnings counts scenario warnings
func (c *Collector) AddWarnings(count int) {
	if c == nil || count <= 0 {
		return
	}
	c.ScenarioWarnings.Add(float64(count))
}

// WriteTextfile writes the gathered metrics in the text exposition format,
// suitable for the node exporter textfile collector
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return fmt.Errorf("no metrics collector")
	}
	return prometheus.WriteToTextfile(path, c.gatherer)
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerHistogramVec(reg prometheus.Registerer, hist *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, counter *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
