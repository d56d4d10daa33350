package capacity

import (
	"math"

	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// DefaultMaxIterations caps the number of streams dropped from the active set
const DefaultMaxIterations = 1000

// WaterFill allocates totalPower over independent streams with the given
// channel gains. Streams with zero gain get no power. It returns the
// allocation in stream order and the number of streams dropped from the
// active set before the water level settled.
func WaterFill(gains []float64, totalPower, noise float64, maxIterations int) ([]float64, int, error) {
	if noise <= 0 || !utils.IsFinite(noise) {
		return nil, 0, errors.NewInvalid("noise power must be positive: %v", noise)
	}
	if totalPower < 0 || !utils.IsFinite(totalPower) {
		return nil, 0, errors.NewInvalid("total power must not be negative: %v", totalPower)
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	alloc := make([]float64, len(gains))

	// inverse SNR of the streams that can carry power
	var active []int
	var inverse []float64
	for i, g := range gains {
		if g < 0 || !utils.IsFinite(g) {
			return nil, 0, errors.NewInvalid("gain of stream %d must be a non-negative number: %v", i, g)
		}
		if inv := noise / g; g > 0 && !math.IsInf(inv, 1) {
			active = append(active, i)
			inverse = append(inverse, inv)
		}
	}
	if totalPower == 0 || len(active) == 0 {
		return alloc, 0, nil
	}

	order := make([]int, len(inverse))
	floats.Argsort(inverse, order)

	// levels are kept relative to the strongest stream, so the level over the
	// strongest stream alone is totalPower and the loop always settles
	base := inverse[0]
	for i := range inverse {
		inverse[i] -= base
	}

	// the k strongest streams share the budget at level (P + Σ inv)/k.
	// The set shrinks until its weakest member still gets positive power.
	k := len(inverse)
	iterations := 0
	var level float64
	for {
		level = (totalPower + floats.Sum(inverse[:k])) / float64(k)
		if k == 1 || level > inverse[k-1] {
			break
		}
		if iterations >= maxIterations {
			return nil, iterations, errors.NewTimeout("water filling did not converge after %d iterations, %d streams active", iterations, k)
		}
		k--
		iterations++
	}

	for i := 0; i < k; i++ {
		alloc[active[order[i]]] = level - inverse[i]
	}
	log.Debugf("Water filling: level %v over %d of %d streams after %d iterations", level+base, k, len(active), iterations)
	return alloc, iterations, nil
}

// WaterFillRows runs WaterFill on every row with its own budget of totalPower
func WaterFillRows(gains [][]float64, totalPower, noise float64, maxIterations int) ([][]float64, error) {
	out := make([][]float64, len(gains))
	for i, row := range gains {
		alloc, _, err := WaterFill(row, totalPower, noise, maxIterations)
		if err != nil {
			return nil, err
		}
		out[i] = alloc
	}
	return out, nil
}

// Uniform divides totalPower equally across streams
func Uniform(streams int, totalPower float64) ([]float64, error) {
	if streams <= 0 {
		return nil, errors.NewInvalid("no streams to allocate power to")
	}
	if totalPower < 0 || !utils.IsFinite(totalPower) {
		return nil, errors.NewInvalid("total power must not be negative: %v", totalPower)
	}
	out := make([]float64, streams)
	for i := range out {
		out[i] = totalPower / float64(streams)
	}
	return out, nil
}
