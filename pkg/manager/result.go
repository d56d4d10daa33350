package manager

import (
	"github.com/nfvri/mimo-simulator/pkg/capacity"
	"github.com/nfvri/mimo-simulator/pkg/channel"
	"github.com/nfvri/mimo-simulator/pkg/correlation"
	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/nfvri/mimo-simulator/pkg/paths"
	"github.com/nfvri/mimo-simulator/pkg/subpath"
	"github.com/onosproject/onos-api/go/onos/ransim/types"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v2"
)

// Result of one link realization
type Result struct {
	RunID    string
	Config   model.Config
	Scenario model.Scenario
	Warnings []model.Warning
	// set for externally supplied links
	BSID types.GnbID
	UEID types.IMSI

	Geometry   model.Geometry
	LargeScale correlation.LargeScale
	Paths      *paths.PathSet
	Subpaths   *subpath.Set
	Angles     *subpath.Angles
	PathLoss   float64 // dB
	Tensor     *channel.Tensor
	Allocation *capacity.Result
}

// PathAllocations U×S power allocation of every path
func (r *Result) PathAllocations() []*mat.Dense {
	out := make([]*mat.Dense, len(r.Allocation.Paths))
	for i := range r.Allocation.Paths {
		out[i] = r.Allocation.Paths[i].Allocation
	}
	return out
}

// PathCapacities total capacity of every path
func (r *Result) PathCapacities() []float64 {
	return r.Allocation.PathCapacities()
}

// AggregateAllocation sum of the per path allocations
func (r *Result) AggregateAllocation() *mat.Dense {
	return r.Allocation.Aggregate
}

// AggregateCapacity sum of the per path capacities
func (r *Result) AggregateCapacity() float64 {
	return r.Allocation.AggregateCapacity
}

// Summary flat report of a run
type Summary struct {
	RunID               string         `yaml:"runId" json:"runId"`
	Scenario            string         `yaml:"scenario" json:"scenario"`
	Policy              string         `yaml:"policy" json:"policy"`
	BSID                types.GnbID    `yaml:"bsId,omitempty" json:"bsId,omitempty"`
	UEID                types.IMSI     `yaml:"ueId,omitempty" json:"ueId,omitempty"`
	BS                  int            `yaml:"BS" json:"BS"`
	MS                  int            `yaml:"MS" json:"MS"`
	S                   int            `yaml:"S" json:"S"`
	U                   int            `yaml:"U" json:"U"`
	N                   int            `yaml:"N" json:"N"`
	M                   int            `yaml:"M" json:"M"`
	Power               float64        `yaml:"power" json:"power"`
	Noise               float64        `yaml:"noise" json:"noise"`
	Geometry            model.Geometry `yaml:"geometry" json:"geometry"`
	PathLoss            float64        `yaml:"pathLoss" json:"pathLoss"`
	Warnings            []string       `yaml:"warnings,omitempty" json:"warnings,omitempty"`
	PathCapacities      []float64      `yaml:"pathCapacities" json:"pathCapacities"`
	AggregateAllocation [][]float64    `yaml:"aggregateAllocation" json:"aggregateAllocation"`
	AggregateCapacity   float64        `yaml:"aggregateCapacity" json:"aggregateCapacity"`
	Iterations          int            `yaml:"iterations" json:"iterations"`
}

// Summary flattens the result for reporting and storage
func (r *Result) Summary() Summary {
	s := Summary{
		RunID:             r.RunID,
		Scenario:          r.Scenario.Name,
		Policy:            r.Allocation.Policy,
		BSID:              r.BSID,
		UEID:              r.UEID,
		BS:                r.Config.BS,
		MS:                r.Config.MS,
		S:                 r.Tensor.S,
		U:                 r.Tensor.U,
		N:                 len(r.Tensor.Paths),
		M:                 r.Subpaths.M(),
		Power:             r.Config.Power,
		Noise:             r.Config.Noise,
		Geometry:          r.Geometry,
		PathLoss:          r.PathLoss,
		PathCapacities:    r.PathCapacities(),
		AggregateCapacity: r.Allocation.AggregateCapacity,
		Iterations:        r.Allocation.Iterations,
	}
	for _, w := range r.Warnings {
		s.Warnings = append(s.Warnings, w.String())
	}
	rows, _ := r.Allocation.Aggregate.Dims()
	for i := 0; i < rows; i++ {
		s.AggregateAllocation = append(s.AggregateAllocation, mat.Row(nil, i, r.Allocation.Aggregate))
	}
	return s
}

// YAML renders the summary
func (s Summary) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
