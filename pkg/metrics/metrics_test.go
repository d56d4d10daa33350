package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)

	collector.ObserveRun(model.PolicyWaterFilling, 20*time.Millisecond, 42.5, 3)
	collector.ObserveRun(model.PolicyUniform, 10*time.Millisecond, 40, 0)
	collector.IncFailures(model.PolicyUniform)
	collector.AddWarnings(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.RunsTotal.WithLabelValues(model.PolicyWaterFilling, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.RunsTotal.WithLabelValues(model.PolicyUniform, "failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.ScenarioWarnings))
	assert.Equal(t, 40.0, testutil.ToFloat64(collector.LastAggregateCapacity))
	assert.Equal(t, 2, testutil.CollectAndCount(collector.AggregateCapacity))
}

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	first.AddWarnings(1)
	second.AddWarnings(1)
	assert.Equal(t, 2.0, testutil.ToFloat64(first.ScenarioWarnings))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveRun(model.PolicyUniform, time.Second, 1, 0)
	c.IncFailures(model.PolicyUniform)
	c.AddWarnings(1)
	assert.Nil(t, c.Gatherer())
	assert.Error(t, c.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)
	collector.ObserveRun(model.PolicyWaterFilling, time.Millisecond, 12, 1)

	path := filepath.Join(t.TempDir(), "mimo.prom")
	require.NoError(t, collector.WriteTextfile(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "mimo_runs_total"))
	assert.True(t, strings.Contains(string(raw), "mimo_waterfilling_iterations_count 1"))
}
