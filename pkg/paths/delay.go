package paths

import (
	"math"
	"sort"

	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
)

func checkScales(scale []float64, name string) error {
	for n, s := range scale {
		if s <= 0 || !utils.IsFinite(s) {
			return errors.NewInternal("%s scale of path %d must be positive: %v", name, n, s)
		}
	}
	return nil
}

// Delays draws len(scale) path delays, sorted ascending with the first at zero.
// Draws one uniform per path.
func Delays(src *utils.Source, rDS float64, scale []float64) ([]float64, error) {
	if len(scale) == 0 {
		return nil, errors.NewInvalid("no paths to generate delays for")
	}
	if rDS <= 0 || !utils.IsFinite(rDS) {
		return nil, errors.NewInternal("delay spread ratio must be positive: r_DS=%v", rDS)
	}
	if err := checkScales(scale, "delay spread"); err != nil {
		return nil, err
	}

	delays := make([]float64, len(scale))
	for n := range delays {
		// 1-u lies in (0, 1] so the logarithm stays finite
		u := 1 - src.Uniform(0, 1)
		delays[n] = -rDS * scale[n] * math.Log(u)
	}
	sort.Float64s(delays)
	min := delays[0]
	for n := range delays {
		delays[n] -= min
	}
	return delays, nil
}
