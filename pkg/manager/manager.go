// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package manager

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfvri/mimo-simulator/pkg/capacity"
	"github.com/nfvri/mimo-simulator/pkg/channel"
	"github.com/nfvri/mimo-simulator/pkg/correlation"
	"github.com/nfvri/mimo-simulator/pkg/metrics"
	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/nfvri/mimo-simulator/pkg/paths"
	"github.com/nfvri/mimo-simulator/pkg/signal"
	redisLib "github.com/nfvri/mimo-simulator/pkg/store/redis"
	"github.com/nfvri/mimo-simulator/pkg/subpath"
	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
)

var log = logging.GetLogger()

// redis ping attempts after the first one
const connectRetries = 3

// Config is a manager configuration
type Config struct {
	Simulation model.Config
	// Registerer receives the run metrics, nil uses the default registerer
	Registerer prometheus.Registerer
	// Store keeps ingested channel data and run summaries. When nil a redis
	// store is connected if enabled in the simulation config, otherwise an
	// in memory store is used.
	Store redisLib.Store
}

// Manager runs simulations of one scenario
type Manager struct {
	config   model.Config
	scenario model.Scenario
	warnings []model.Warning
	metrics  *metrics.Collector
	store    redisLib.Store

	mu       sync.RWMutex
	channels []model.ChannelData
}

// NewManager creates a new manager
func NewManager(config *Config) (*Manager, error) {
	log.Info("Creating Manager")

	cfg := config.Simulation
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Policy == "" {
		cfg.Policy = model.PolicyWaterFilling
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = capacity.DefaultMaxIterations
	}

	collector, err := metrics.NewCollector(config.Registerer)
	if err != nil {
		return nil, err
	}

	scenario, warnings := model.LookupScenario(cfg.Scenario, cfg.SystemType, cfg.Overrides)
	collector.AddWarnings(len(warnings))

	store := config.Store
	if store == nil {
		if cfg.Redis.Enabled {
			redisCfg := cfg.Redis
			redisCfg.Host = utils.GetEnv("REDIS_HOST", redisCfg.Host)
			redisCfg.Port = utils.GetEnv("REDIS_PORT", redisCfg.Port)
			rs, err := redisLib.Connect(context.Background(), redisCfg, connectRetries)
			if err != nil {
				return nil, err
			}
			store = rs
		} else {
			store = &redisLib.MockedRedisStore{}
		}
	}

	return &Manager{
		config:   cfg,
		scenario: scenario,
		warnings: warnings,
		metrics:  collector,
		store:    store,
	}, nil
}

// Scenario returns the resolved scenario
func (m *Manager) Scenario() model.Scenario {
	return m.scenario
}

// Warnings raised while resolving the scenario
func (m *Manager) Warnings() []model.Warning {
	return m.warnings
}

// Metrics returns the run metrics collector
func (m *Manager) Metrics() *metrics.Collector {
	return m.metrics
}

// Store returns the snapshot store
func (m *Manager) Store() redisLib.Store {
	return m.store
}

// Close releases the redis connection if any
func (m *Manager) Close() error {
	if rs, ok := m.store.(*redisLib.RedisStore); ok && rs.ChannelDB != nil {
		return rs.ChannelDB.Close()
	}
	return nil
}

// Run draws one link realization from the configured seed and evaluates its
// capacity
func (m *Manager) Run(ctx context.Context) (*Result, error) {
	log.Info("Running Manager")
	return m.run(ctx, utils.NewSource(m.config.Seed), nil)
}

func (m *Manager) run(ctx context.Context, src *utils.Source, external *model.ChannelData) (*Result, error) {
	start := time.Now()
	res, err := m.simulate(ctx, src, external)
	if err != nil {
		log.Errorf("Simulation failed: %v", err)
		m.metrics.IncFailures(m.config.Policy)
		return nil, err
	}
	m.metrics.ObserveRun(res.Allocation.Policy, time.Since(start), res.Allocation.AggregateCapacity, res.Allocation.Iterations)

	if err := m.store.AddRunSummary(ctx, res.RunID, res.Summary()); err != nil {
		log.Warnf("Unable to store summary of run %s: %v", res.RunID, err)
	}
	log.Infof("Run %s: aggregate capacity %.4f bit/s/Hz", res.RunID, res.Allocation.AggregateCapacity)
	return res, nil
}

func (m *Manager) correlationParams() correlation.Params {
	sys := m.scenario.System
	return correlation.Params{
		N:       m.config.N,
		RhoDSAS: m.config.RhoDSAS,
		RhoSFAS: m.config.RhoSFAS,
		RhoSFDS: m.config.RhoSFDS,
		ZethaSF: m.config.ZethaSF,
		EpsDS:   sys.EpsDS,
		MuDS:    sys.MuDS,
		EpsAS:   sys.EpsAS,
		MuAS:    sys.MuAS,
		SigmaSH: sys.SigmaSH,
	}
}

// simulate runs every stage in draw order. Externally supplied paths replace
// the large scale and path generation, and carry no extra shadow fading.
func (m *Manager) simulate(ctx context.Context, src *utils.Source, external *model.ChannelData) (*Result, error) {
	res := &Result{
		RunID:    uuid.New().String(),
		Scenario: m.scenario,
		Warnings: m.warnings,
		Config:   m.config,
	}

	g, err := model.DrawGeometry(src, m.scenario.R)
	if err != nil {
		return nil, err
	}
	res.Geometry = g
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if external == nil {
		ls, err := correlation.Generate(src, m.correlationParams())
		if err != nil {
			return nil, err
		}
		ps, err := paths.Generate(src, m.scenario.System, ls)
		if err != nil {
			return nil, err
		}
		res.LargeScale, res.Paths = ls, ps
	} else {
		ps, err := paths.FromChannelData(external)
		if err != nil {
			return nil, err
		}
		res.Paths = ps
		res.LargeScale = unitShadowing(ps.Len())
		res.BSID, res.UEID = external.BSID, external.UEID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := subpath.Synthesize(src, res.Paths.Powers, m.config.M)
	if err != nil {
		return nil, err
	}
	angles, err := subpath.AbsoluteAngles(g, res.Paths, set)
	if err != nil {
		return nil, err
	}
	res.Subpaths, res.Angles = set, angles

	bsGains, err := signal.SectorGains(angles.AoD, m.config.AntennaSectors)
	if err != nil {
		return nil, err
	}
	msGains, err := signal.SectorGains(angles.AoA, m.config.AntennaSectors)
	if err != nil {
		return nil, err
	}
	res.PathLoss, err = signal.GetPathLoss(m.scenario, g, m.config.Frequency)
	if err != nil {
		return nil, err
	}
	powers, err := signal.NormalizeSubpathPowers(set.Powers, res.PathLoss, res.LargeScale.ShadowFading)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Tensor, err = channel.Build(channel.Input{
		AoD:          angles.AoD,
		AoA:          angles.AoA,
		Powers:       powers,
		Phases:       set.Phases,
		BSGains:      bsGains,
		MSGains:      msGains,
		ShadowFading: res.LargeScale.ShadowFading,
		BSSpacing:    utils.If(m.config.BSSpacing > 0, m.config.BSSpacing, m.scenario.System.DBS),
		MSSpacing:    utils.If(m.config.MSSpacing > 0, m.config.MSSpacing, 0.5),
		S:            m.config.S,
		U:            m.config.U,
		Frequency:    m.config.Frequency,
		Velocity:     m.config.Velocity,
		ThetaV:       g.ThetaV,
		Time:         m.config.Time,
		Workers:      m.config.Workers,
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Allocation, err = capacity.Evaluate(res.Tensor, m.config.Power, m.config.Noise, m.config.Policy, m.config.MaxIterations, m.config.Workers)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func unitShadowing(n int) correlation.LargeScale {
	sf := make([]float64, n)
	for i := range sf {
		sf[i] = 1
	}
	return correlation.LargeScale{ShadowFading: sf}
}
