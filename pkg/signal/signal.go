package signal

import (
	"math"

	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
)

// SectorPattern horizontal radiation pattern of a sector antenna
type SectorPattern struct {
	Theta3dB       float64 // half power beamwidth in degrees
	MaxAttenuation float64 // A_m in dB
	BoresightGain  float64 // dBi
}

var sectorPatterns = map[int]SectorPattern{
	3: {Theta3dB: 70, MaxAttenuation: 20, BoresightGain: 14},
	6: {Theta3dB: 35, MaxAttenuation: 23, BoresightGain: 17},
}

// GetSectorPattern returns the pattern of a 3 or 6 sector site
func GetSectorPattern(sectors int) (SectorPattern, error) {
	p, ok := sectorPatterns[sectors]
	if !ok {
		return SectorPattern{}, errors.NewNotSupported("antenna sector count %d is not supported, use 3 or 6", sectors)
	}
	return p, nil
}

// 3GPP TR 25.996 section 4.5
// Horizontal cut of the radiation power pattern (dB)
func azimuthAttenuation(azimuthAngle, phi3dB float64, aMax float64) float64 {
	angleRatio := azimuthAngle / phi3dB
	azAtt := 12 * math.Pow(angleRatio, 2)
	return -math.Min(azAtt, aMax)
}

// Gain linear antenna gain towards angle (degrees)
func (p SectorPattern) Gain(angle float64) float64 {
	att := azimuthAttenuation(utils.NormalizeAngle(angle), p.Theta3dB, p.MaxAttenuation)
	return utils.DbToLinear(att) * utils.DbToLinear(p.BoresightGain)
}

// SectorGain linear antenna gain towards angle (degrees) of a sector antenna
func SectorGain(angle float64, sectors int) (float64, error) {
	p, err := GetSectorPattern(sectors)
	if err != nil {
		return 0, err
	}
	return p.Gain(angle), nil
}

// SectorGains evaluates SectorGain over an N×M grid of subpath angles
func SectorGains(angles [][]float64, sectors int) ([][]float64, error) {
	p, err := GetSectorPattern(sectors)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(angles))
	for n, row := range angles {
		out[n] = make([]float64, len(row))
		for m, a := range row {
			out[n][m] = p.Gain(a)
		}
	}
	return out, nil
}
