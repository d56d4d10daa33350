package paths

import (
	"math"

	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ShadowingStdDb per path log-normal shadowing applied to path powers
const ShadowingStdDb = 3.0

// Powers draws normalized path powers for delay-ordered paths.
// Draws one normal per path.
func Powers(src *utils.Source, rDS float64, delays, scale []float64) ([]float64, error) {
	if len(delays) == 0 || len(delays) != len(scale) {
		return nil, errors.NewInvalid("delays and scales must have the same non-zero length: %d != %d", len(delays), len(scale))
	}
	if rDS <= 0 || !utils.IsFinite(rDS) {
		return nil, errors.NewInternal("delay spread ratio must be positive: r_DS=%v", rDS)
	}
	if err := checkScales(scale, "delay spread"); err != nil {
		return nil, err
	}

	powers := make([]float64, len(delays))
	for n, tau := range delays {
		decay := math.Exp((1 - rDS) * tau / (rDS * scale[n]))
		xi := src.Normal(0, ShadowingStdDb)
		powers[n] = decay * math.Pow(10, -xi/10)
	}
	return Normalize(powers)
}

// Normalize scales powers so that they sum to one
func Normalize(powers []float64) ([]float64, error) {
	total := floats.Sum(powers)
	if total <= 0 || !utils.IsFinite(total) {
		return nil, errors.NewInternal("path powers cannot be normalized: sum=%v", total)
	}
	out := make([]float64, len(powers))
	floats.ScaleTo(out, 1/total, powers)
	return out, nil
}
