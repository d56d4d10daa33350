package manager

import (
	"context"
	"strings"
	"testing"

	"github.com/nfvri/mimo-simulator/pkg/model"
	redisLib "github.com/nfvri/mimo-simulator/pkg/store/redis"
	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func simulationConfig() model.Config {
	return model.Config{
		Scenario:       model.SuburbanMacro,
		SystemType:     model.SystemMIMO,
		S:              2,
		U:              2,
		BS:             1,
		MS:             1,
		N:              6,
		M:              20,
		RhoDSAS:        0.5,
		RhoSFAS:        -0.6,
		RhoSFDS:        -0.6,
		ZethaSF:        0.5,
		AntennaSectors: 3,
		Frequency:      2e9,
		Power:          1,
		Noise:          1e-13,
		Seed:           42,
		Velocity:       2,
		BSSpacing:      0.5,
		MSSpacing:      0.5,
		Policy:         model.PolicyWaterFilling,
	}
}

func newManager(t *testing.T, cfg model.Config) *Manager {
	mgr, err := NewManager(&Config{
		Simulation: cfg,
		Registerer: prometheus.NewRegistry(),
		Store:      &redisLib.MockedRedisStore{},
	})
	require.NoError(t, err)
	return mgr
}

func TestRunEndToEnd(t *testing.T) {
	mgr := newManager(t, simulationConfig())
	res, err := mgr.Run(context.Background())
	require.NoError(t, err)

	u, s, n := res.Tensor.Shape()
	assert.Equal(t, 2, u)
	assert.Equal(t, 2, s)
	assert.Equal(t, 6, n)

	assert.Greater(t, res.AggregateCapacity(), 0.0)
	assert.True(t, utils.IsFinite(res.AggregateCapacity()))
	assert.InDelta(t, 1.0, mat.Sum(res.AggregateAllocation()), 1e-9)
	assert.Len(t, res.PathAllocations(), 6)
	assert.Len(t, res.PathCapacities(), 6)
	assert.InDelta(t, res.AggregateCapacity(), floats.Sum(res.PathCapacities()), 1e-9)

	// path and subpath invariants survive the pipeline
	assert.InDelta(t, 1.0, floats.Sum(res.Paths.Powers), 1e-12)
	assert.Equal(t, 0.0, res.Paths.SortedDelays()[0])
	assert.Equal(t, 0, res.Paths.Order[floats.MinIdx(res.Paths.Delays)])
	for i := range res.Subpaths.Powers {
		assert.InDelta(t, res.Paths.Powers[i], floats.Sum(res.Subpaths.Powers[i]), 1e-12)
		for j := range res.Angles.AoD[i] {
			assert.Greater(t, res.Angles.AoD[i][j], -180.0)
			assert.LessOrEqual(t, res.Angles.AoD[i][j], 180.0)
		}
	}
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Warnings)
}

func TestRunReproducible(t *testing.T) {
	mgr := newManager(t, simulationConfig())
	first, err := mgr.Run(context.Background())
	require.NoError(t, err)
	second, err := mgr.Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Geometry, second.Geometry)
	assert.Equal(t, first.AggregateCapacity(), second.AggregateCapacity())
}

func TestRunUniformPolicy(t *testing.T) {
	cfg := simulationConfig()
	cfg.Policy = model.PolicyUniform
	cfg.Power = 3
	res, err := newManager(t, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.PolicyUniform, res.Allocation.Policy)
	assert.InDelta(t, 3.0, mat.Sum(res.AggregateAllocation()), 1e-12)
	assert.InDelta(t, 0.25, res.Allocation.Paths[0].Powers[0], 1e-12)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newManager(t, simulationConfig()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunErrors(t *testing.T) {
	cfg := simulationConfig()
	cfg.M = 21
	_, err := NewManager(&Config{Simulation: cfg, Registerer: prometheus.NewRegistry()})
	assert.True(t, errors.IsInvalid(err))

	cfg = simulationConfig()
	cfg.AntennaSectors = 4
	mgr := newManager(t, cfg)
	_, err = mgr.Run(context.Background())
	assert.True(t, errors.IsNotSupported(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(mgr.Metrics().RunsTotal.WithLabelValues(model.PolicyWaterFilling, "failure")))
}

func TestRunUnknownScenario(t *testing.T) {
	cfg := simulationConfig()
	cfg.Scenario = "Rural Macro"
	cfg.Overrides = model.Scenario{
		Environment: model.Environment{BSHeight: 30, MSHeight: 1.5, R: 1000},
		System: model.CommunicationSystem{
			EpsAS: 0.13, MuAS: 0.69, EpsDS: 0.18, MuDS: -6.18,
			SigmaSH: 8, RDS: 1.4, RAS: 1.2,
		},
	}
	mgr := newManager(t, cfg)
	require.Len(t, mgr.Warnings(), 1)
	assert.Equal(t, model.WarnUnknownScenario, mgr.Warnings()[0].Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(mgr.Metrics().ScenarioWarnings))

	res, err := mgr.Run(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Geometry.Distance, 1000.0)
	assert.Len(t, res.Summary().Warnings, 1)
}

func externalChannels() []model.ChannelData {
	link := model.ChannelData{BSID: 7, UEID: 315010000000042}
	link.AddPath(model.PathInfo{Delay: 3e-7, Power: 0.1, AoDAngle: -4, AoAAngle: 40})
	link.AddPath(model.PathInfo{Delay: 1e-7, Power: 0.3, AoDAngle: 2, AoAAngle: -15})
	link.AddPath(model.PathInfo{Delay: 5e-7, Power: 0.05, AoDAngle: 6, AoAAngle: 70})
	link.AddPath(model.PathInfo{Delay: 0.5e-7, Power: 0.55, AoDAngle: 0.5, AoAAngle: 5})
	return []model.ChannelData{link}
}

func TestRunWithChannels(t *testing.T) {
	mgr := newManager(t, simulationConfig())
	results, err := mgr.RunWithChannels(context.Background(), externalChannels())
	require.NoError(t, err)
	require.Len(t, results, 1)
	res := results[0]

	_, _, n := res.Tensor.Shape()
	assert.Equal(t, 4, n)
	assert.Equal(t, 20, res.Subpaths.M())
	assert.InDeltaSlice(t, []float64{0, 0.5e-7, 2.5e-7, 4.5e-7}, res.Paths.Delays, 1e-20)
	assert.InDeltaSlice(t, []float64{0.55, 0.3, 0.1, 0.05}, res.Paths.Powers, 1e-12)
	assert.Equal(t, []float64{0.5, 2, -4, 6}, res.Paths.AoD)
	assert.Equal(t, []float64{1, 1, 1, 1}, res.LargeScale.ShadowFading)
	assert.EqualValues(t, 7, res.BSID)
	assert.InDelta(t, 1.0, mat.Sum(res.AggregateAllocation()), 1e-9)
	assert.Greater(t, res.AggregateCapacity(), 0.0)
}

func TestChannelSnapshots(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, simulationConfig())
	require.NoError(t, mgr.IntegrateChannels(externalChannels()))
	snapshotId, err := mgr.SaveChannels(ctx)
	require.NoError(t, err)

	other := newManager(t, simulationConfig())
	other.store = mgr.Store()
	require.NoError(t, other.LoadChannels(ctx, snapshotId))
	assert.Equal(t, externalChannels(), other.Channels())

	err = mgr.AddChannelData(model.ChannelData{BSID: 1, UEID: 2})
	assert.True(t, errors.IsInvalid(err))
	assert.Len(t, mgr.Channels(), 1)
}

func TestRunSummaryStored(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, simulationConfig())
	res, err := mgr.Run(ctx)
	require.NoError(t, err)

	stored := Summary{}
	require.NoError(t, mgr.Store().GetRunSummary(ctx, res.RunID, &stored))
	assert.Equal(t, res.RunID, stored.RunID)
	assert.Equal(t, 6, stored.N)
	assert.Equal(t, 20, stored.M)
	assert.InDelta(t, res.AggregateCapacity(), stored.AggregateCapacity, 1e-9)

	out, err := res.Summary().YAML()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "aggregateCapacity:"))
	assert.True(t, strings.Contains(string(out), "scenario: Suburban Macro"))
}

func TestSweep(t *testing.T) {
	mgr := newManager(t, simulationConfig())
	points, err := mgr.Sweep(context.Background(), []float64{0.1, 1, 10})
	require.NoError(t, err)
	require.Len(t, points, 3)
	for i, p := range points {
		assert.GreaterOrEqual(t, p.WaterFilling, p.Uniform-1e-9)
		if i > 0 {
			assert.Greater(t, p.WaterFilling, points[i-1].WaterFilling)
			assert.Greater(t, p.Uniform, points[i-1].Uniform)
		}
	}

	// the configured budget reproduces the plain run
	res, err := mgr.Run(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, res.AggregateCapacity(), points[1].WaterFilling, 1e-9)

	_, err = mgr.Sweep(context.Background(), nil)
	assert.True(t, errors.IsInvalid(err))
}

func TestDrops(t *testing.T) {
	mgr := newManager(t, simulationConfig())
	drops, err := mgr.Drops(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, drops.Capacities, 5)
	assert.Equal(t, 5, drops.Summary.Count)
	assert.InDelta(t, floats.Sum(drops.Capacities)/5, drops.Summary.Mean, 1e-9)

	// the first drop is the plain run of the same seed
	res, err := mgr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.AggregateCapacity(), drops.Capacities[0])

	_, err = mgr.Drops(context.Background(), 0)
	assert.True(t, errors.IsInvalid(err))
}

func TestRequiredPower(t *testing.T) {
	mgr := newManager(t, simulationConfig())
	points, err := mgr.Sweep(context.Background(), []float64{2})
	require.NoError(t, err)

	power, err := mgr.RequiredPower(context.Background(), points[0].WaterFilling)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, power, 2e-2)
}
