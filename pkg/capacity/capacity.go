package capacity

import (
	"math"
	"runtime"
	"sync"

	"github.com/nfvri/mimo-simulator/pkg/channel"
	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// StreamCapacity returns log2(1 + g·p/noise) per stream in bit/s/Hz
func StreamCapacity(gains, powers []float64, noise float64) []float64 {
	out := make([]float64, len(gains))
	for i, g := range gains {
		out[i] = math.Log1p(g*powers[i]/noise) / math.Ln2
	}
	return out
}

// PathAllocation allocation and capacity of one path
type PathAllocation struct {
	SingularValues []float64  `yaml:"singularValues"`
	Gains          []float64  `yaml:"gains"` // squared singular values
	Powers         []float64  `yaml:"powers"`
	Allocation     *mat.Dense `yaml:"-"` // U×S, powers on the diagonal
	Capacity       []float64  `yaml:"capacity"`
}

// Total capacity of the path
func (p *PathAllocation) Total() float64 {
	return floats.Sum(p.Capacity)
}

// Result allocation over all paths of a channel tensor
type Result struct {
	Policy            string
	Paths             []PathAllocation
	Aggregate         *mat.Dense // sum of the per path allocations
	AggregateCapacity float64
	Iterations        int
}

// PathCapacities total capacity per path
func (r *Result) PathCapacities() []float64 {
	out := make([]float64, len(r.Paths))
	for i := range r.Paths {
		out[i] = r.Paths[i].Total()
	}
	return out
}

// Decompose computes the singular values of every path concurrently
func Decompose(t *channel.Tensor, workers int) ([][]float64, error) {
	n := len(t.Paths)
	if n == 0 {
		return nil, errors.NewInvalid("channel tensor has no paths")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	values := make([][]float64, n)
	errs := make([]error, n)
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for p := 0; p < n; p++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(p int) {
			defer wg.Done()
			defer func() { <-sem }()
			values[p], errs[p] = SingularValues(t.Paths[p])
		}(p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return values, nil
}

// Evaluate allocates totalPower jointly over every stream of every path with
// the given policy and computes the per path and aggregate capacity
func Evaluate(t *channel.Tensor, totalPower, noise float64, policy string, maxIterations, workers int) (*Result, error) {
	if noise <= 0 {
		return nil, errors.NewInvalid("noise power must be positive: %v", noise)
	}
	values, err := Decompose(t, workers)
	if err != nil {
		return nil, err
	}
	return Allocate(t.U, t.S, values, totalPower, noise, policy, maxIterations)
}

// Allocate runs the allocation policy over the singular values of U×S paths
func Allocate(u, s int, values [][]float64, totalPower, noise float64, policy string, maxIterations int) (*Result, error) {
	var gains []float64
	for _, sv := range values {
		for _, v := range sv {
			gains = append(gains, v*v)
		}
	}

	var powers []float64
	iterations := 0
	var err error
	switch policy {
	case model.PolicyWaterFilling, "":
		policy = model.PolicyWaterFilling
		powers, iterations, err = WaterFill(gains, totalPower, noise, maxIterations)
	case model.PolicyUniform:
		powers, err = Uniform(len(gains), totalPower)
	default:
		err = errors.NewInvalid("unknown allocation policy %q", policy)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Policy:     policy,
		Paths:      make([]PathAllocation, len(values)),
		Aggregate:  mat.NewDense(u, s, nil),
		Iterations: iterations,
	}
	offset := 0
	for p, sv := range values {
		k := len(sv)
		pa := PathAllocation{
			SingularValues: sv,
			Gains:          gains[offset : offset+k],
			Powers:         powers[offset : offset+k],
			Allocation:     Diagonal(u, s, powers[offset:offset+k]),
		}
		pa.Capacity = StreamCapacity(pa.Gains, pa.Powers, noise)
		result.Aggregate.Add(result.Aggregate, pa.Allocation)
		result.AggregateCapacity += pa.Total()
		result.Paths[p] = pa
		offset += k
	}

	log.Debugf("%s allocation of %v W over %d streams: %.4f bit/s/Hz", policy, totalPower, len(gains), result.AggregateCapacity)
	return result, nil
}
