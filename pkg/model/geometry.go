package model

import (
	"math"

	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
)

// MinDistance keeps the MS outside the near field of the empirical path loss model
const MinDistance = 35.0

// DrawGeometry places one MS in a cell of radius r around a fixed BS.
// Draw order: distance, MS orientation, LOS AoD, velocity heading.
func DrawGeometry(src *utils.Source, r float64) (Geometry, error) {
	if r <= MinDistance || !utils.IsFinite(r) {
		return Geometry{}, errors.NewInvalid("cell radius must exceed %v m: R=%v", MinDistance, r)
	}

	g := Geometry{
		Distance: utils.RoundToDecimal(src.Uniform(MinDistance, r), 2),
		OmegaBS:  0,
		OmegaMS:  utils.RoundToDecimal(src.Uniform(0, 360), 2),
		ThetaBS:  utils.RoundToDecimal(src.Uniform(0, 360), 2),
		ThetaV:   utils.RoundToDecimal(src.Uniform(0, 360), 2),
	}
	g.ThetaMS = utils.RoundToDecimal(math.Abs(g.OmegaBS-g.OmegaMS+g.ThetaBS+180), 2)
	return g, nil
}
