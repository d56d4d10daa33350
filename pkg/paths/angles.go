package paths

import (
	"math"

	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// AoA spread model of the arrival angle per path: 104.12·(1 − exp(−0.2175·|P_dB|))
const (
	aoaSpreadMax   = 104.12
	aoaSpreadSlope = 0.2175
)

// DepartureAngles draws one AoD deviation per path in degrees and sorts them by
// ascending magnitude. order[i] is the draw index of the i-th sorted angle.
// Draws one normal per path.
func DepartureAngles(src *utils.Source, rAS float64, scale []float64) ([]float64, []int, error) {
	if len(scale) == 0 {
		return nil, nil, errors.NewInvalid("no paths to generate departure angles for")
	}
	if rAS <= 0 || !utils.IsFinite(rAS) {
		return nil, nil, errors.NewInternal("angle spread ratio must be positive: r_AS=%v", rAS)
	}
	if err := checkScales(scale, "angle spread"); err != nil {
		return nil, nil, err
	}

	raw := make([]float64, len(scale))
	for n := range raw {
		raw[n] = rAS * scale[n] * src.Normal(0, 1)
	}

	magnitude := make([]float64, len(raw))
	for n, a := range raw {
		magnitude[n] = math.Abs(a)
	}
	order := make([]int, len(raw))
	floats.ArgsortStable(magnitude, order)

	return Permute(raw, order), order, nil
}

// ArrivalSpread returns the standard deviation in degrees of the AoA of a path
// with the given linear power
func ArrivalSpread(power float64) float64 {
	powerDb := utils.LinearToDb(power)
	return aoaSpreadMax * (1 - math.Exp(-aoaSpreadSlope*math.Abs(powerDb)))
}

// ArrivalAngles draws one zero mean AoA deviation per path in degrees.
// Draws one normal per path.
func ArrivalAngles(src *utils.Source, powers []float64) ([]float64, error) {
	aoa := make([]float64, len(powers))
	for n, p := range powers {
		if p <= 0 || !utils.IsFinite(p) {
			return nil, errors.NewInternal("power of path %d must be positive: %v", n, p)
		}
		aoa[n] = src.Normal(0, ArrivalSpread(p))
	}
	return aoa, nil
}

// Permute returns values reordered so that out[i] = values[order[i]]
func Permute(values []float64, order []int) []float64 {
	out := make([]float64, len(order))
	for i, idx := range order {
		out[i] = values[idx]
	}
	return out
}
