package manager

import (
	"context"

	"github.com/nfvri/mimo-simulator/pkg/capacity"
	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/nfvri/mimo-simulator/pkg/statistics"
	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/nfvri/mimo-simulator/pkg/utils/solver"
	"github.com/onosproject/onos-lib-go/pkg/errors"
)

// SweepPoint aggregate capacity of both policies at one power budget
type SweepPoint struct {
	Power        float64 `yaml:"power"`
	WaterFilling float64 `yaml:"waterfilling"`
	Uniform      float64 `yaml:"uniform"`
}

// Sweep evaluates both allocation policies over a list of power budgets on
// the channel realization of the configured seed
func (m *Manager) Sweep(ctx context.Context, powers []float64) ([]SweepPoint, error) {
	if len(powers) == 0 {
		return nil, errors.NewInvalid("no power budgets to sweep")
	}
	res, err := m.Run(ctx)
	if err != nil {
		return nil, err
	}
	values, err := capacity.Decompose(res.Tensor, m.config.Workers)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, 0, len(powers))
	for _, p := range powers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wf, err := capacity.Allocate(m.config.U, m.config.S, values, p, m.config.Noise, model.PolicyWaterFilling, m.config.MaxIterations)
		if err != nil {
			return nil, err
		}
		uf, err := capacity.Allocate(m.config.U, m.config.S, values, p, m.config.Noise, model.PolicyUniform, m.config.MaxIterations)
		if err != nil {
			return nil, err
		}
		points = append(points, SweepPoint{Power: p, WaterFilling: wf.AggregateCapacity, Uniform: uf.AggregateCapacity})
	}
	log.Infof("Swept %d power budgets", len(points))
	return points, nil
}

// DropsResult aggregate capacities of repeated link realizations
type DropsResult struct {
	Capacities []float64          `yaml:"capacities"`
	Summary    statistics.Summary `yaml:"summary"`
}

// Drops redraws geometry and channel k times from one source seeded with the
// configured seed
func (m *Manager) Drops(ctx context.Context, k int) (*DropsResult, error) {
	if k <= 0 {
		return nil, errors.NewInvalid("number of drops must be positive: %d", k)
	}
	src := utils.NewSource(m.config.Seed)
	capacities := make([]float64, 0, k)
	for i := 0; i < k; i++ {
		res, err := m.run(ctx, src, nil)
		if err != nil {
			return nil, err
		}
		capacities = append(capacities, res.Allocation.AggregateCapacity)
	}

	summary, err := statistics.Summarize(capacities)
	if err != nil {
		return nil, err
	}
	log.Infof("%d drops: mean capacity %.4f bit/s/Hz, std-dev %.4f", k, summary.Mean, summary.StdDev)
	return &DropsResult{Capacities: capacities, Summary: summary}, nil
}

// RequiredPower finds the total transmit power at which the channel
// realization of the configured seed reaches the target aggregate capacity
// with the configured policy
func (m *Manager) RequiredPower(ctx context.Context, target float64) (float64, error) {
	res, err := m.Run(ctx)
	if err != nil {
		return 0, err
	}
	values, err := capacity.Decompose(res.Tensor, m.config.Workers)
	if err != nil {
		return 0, err
	}

	capacityAt := func(p float64) (float64, error) {
		alloc, err := capacity.Allocate(m.config.U, m.config.S, values, p, m.config.Noise, m.config.Policy, m.config.MaxIterations)
		if err != nil {
			return 0, err
		}
		return alloc.AggregateCapacity, nil
	}
	initial := utils.If(m.config.Power > 0, m.config.Power, 1.0)
	return solver.PowerForCapacity(capacityAt, target, initial)
}
