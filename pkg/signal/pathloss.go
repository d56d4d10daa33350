package signal

import (
	"math"

	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// PathLoss modified COST 231 Hata macrocell path loss in dB.
// Heights and distance in meters, frequency in MHz, c is the scenario offset in dB.
func PathLoss(hBS, hMS, distance, frequencyMHz, c float64) (float64, error) {
	if distance <= 0 || frequencyMHz <= 0 || hBS <= 0 || !utils.IsFinite(distance, frequencyMHz, hBS, hMS, c) {
		return 0, errors.NewInternal("invalid path loss input: h_bs=%v d=%v f=%v", hBS, distance, frequencyMHz)
	}
	pathLoss := (44.9-6.55*math.Log10(hBS))*math.Log10(distance/1000) +
		45.5 +
		(35.46-1.1*hMS)*math.Log10(frequencyMHz) -
		13.82*math.Log10(hBS) +
		0.7*hMS +
		c
	return pathLoss, nil
}

// GetPathLoss path loss of a link in a scenario, frequency in Hz
func GetPathLoss(scenario model.Scenario, g model.Geometry, frequencyHz float64) (float64, error) {
	pathLoss, err := PathLoss(scenario.BSHeight, scenario.MSHeight, g.Distance, frequencyHz/1e6, scenario.C)
	if err != nil {
		return 0, err
	}
	log.Debugf("Path loss at %.2f m: %.2f dB", g.Distance, pathLoss)
	return pathLoss, nil
}

// NormalizeSubpathPowers divides every subpath power of path n by the linear
// path loss and the shadow fading scale of the path
func NormalizeSubpathPowers(powers [][]float64, pathLossDb float64, shadowFading []float64) ([][]float64, error) {
	if len(powers) != len(shadowFading) {
		return nil, errors.NewInvalid("shadow fading scales %d do not match paths %d", len(shadowFading), len(powers))
	}
	pl := utils.DbToLinear(pathLossDb)
	out := make([][]float64, len(powers))
	for n, row := range powers {
		if shadowFading[n] <= 0 || !utils.IsFinite(shadowFading[n]) {
			return nil, errors.NewInternal("shadow fading scale of path %d must be positive: %v", n, shadowFading[n])
		}
		out[n] = make([]float64, len(row))
		for m, p := range row {
			out[n][m] = p / (pl * shadowFading[n])
		}
	}
	return out, nil
}
