package paths

import (
	"sort"

	"github.com/nfvri/mimo-simulator/pkg/correlation"
	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// PathSet per path delays (s), powers and angle deviations (degrees).
// Generated sets are indexed by ascending |AoD|; ingested sets by delay.
type PathSet struct {
	Delays []float64 `yaml:"delays"`
	Powers []float64 `yaml:"powers"`
	AoD    []float64 `yaml:"aod"`
	AoA    []float64 `yaml:"aoa"`
	// Order[n] is the source index of path n: its delay rank for generated
	// sets, its input position for ingested ones
	Order []int `yaml:"order"`
}

// Len number of paths
func (p *PathSet) Len() int {
	return len(p.Delays)
}

// SortedDelays returns the delays in ascending order
func (p *PathSet) SortedDelays() []float64 {
	out := append([]float64(nil), p.Delays...)
	sort.Float64s(out)
	return out
}

// Validate checks the shape of the set and that the delays are zero anchored
func (p *PathSet) Validate() error {
	n := len(p.Delays)
	if n == 0 {
		return errors.NewInvalid("path set is empty")
	}
	if len(p.Powers) != n || len(p.AoD) != n || len(p.AoA) != n {
		return errors.NewInvalid("path set arrays differ in length: %d %d %d %d", n, len(p.Powers), len(p.AoD), len(p.AoA))
	}
	if len(p.Order) != 0 && len(p.Order) != n {
		return errors.NewInvalid("path order has %d entries for %d paths", len(p.Order), n)
	}
	if min := p.SortedDelays()[0]; min != 0 {
		return errors.NewInvalid("path delays are not zero anchored: minimum %v", min)
	}
	return nil
}

// Generate draws delays, powers and angles of len(ls.DelaySpread) paths.
// Draw order: delays, powers, departure angles, arrival angles. Paths are
// reindexed by ascending |AoD|: path n carries the delay and power of delay
// rank order[n], and its arrival angle is drawn in that order from its power.
func Generate(src *utils.Source, system model.CommunicationSystem, ls correlation.LargeScale) (*PathSet, error) {
	delays, err := Delays(src, system.RDS, ls.DelaySpread)
	if err != nil {
		return nil, err
	}
	powers, err := Powers(src, system.RDS, delays, ls.DelaySpread)
	if err != nil {
		return nil, err
	}
	aod, order, err := DepartureAngles(src, system.RAS, ls.AngleSpread)
	if err != nil {
		return nil, err
	}
	delays = Permute(delays, order)
	powers = Permute(powers, order)
	aoa, err := ArrivalAngles(src, powers)
	if err != nil {
		return nil, err
	}
	log.Debugf("Generated %d paths: order=%v delays=%v powers=%v", len(delays), order, delays, powers)

	return &PathSet{
		Delays: delays,
		Powers: powers,
		AoD:    aod,
		AoA:    aoa,
		Order:  order,
	}, nil
}

// FromChannelData builds a path set from externally supplied paths. Paths are
// sorted by delay and the delays re-anchored at zero; powers are normalized.
func FromChannelData(data *model.ChannelData) (*PathSet, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	n := len(data.Paths)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return data.Paths[order[i]].Delay < data.Paths[order[j]].Delay
	})

	delays := Permute(data.Delays(), order)
	min := delays[0]
	for i := range delays {
		delays[i] -= min
	}
	powers, err := Normalize(Permute(data.Powers(), order))
	if err != nil {
		return nil, err
	}

	return &PathSet{
		Delays: delays,
		Powers: powers,
		AoD:    Permute(data.AoDs(), order),
		AoA:    Permute(data.AoAs(), order),
		Order:  order,
	}, nil
}
