package subpath

import (
	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/nfvri/mimo-simulator/pkg/paths"
	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
)

// Subpath angular offsets in degrees, for a 2° AS at the BS and a 35° AS at
// the MS (3GPP TR 25.996 table 5.2)
var (
	AoDOffsets = [model.MaxSubpaths]float64{
		0.0894, -0.0894, 0.2826, -0.2826, 0.4984, -0.4984, 0.7431, -0.7431, 1.0257, -1.0257,
		1.3594, -1.3594, 1.7688, -1.7688, 2.2961, -2.2961, 3.0389, -3.0389, 4.3101, -4.3101,
	}
	AoAOffsets = [model.MaxSubpaths]float64{
		1.5649, -1.5649, 4.9447, -4.9447, 8.7224, -8.7224, 13.0045, -13.0045, 17.9492, -17.9492,
		23.7899, -23.7899, 30.9538, -30.9538, 40.1824, -40.1824, 53.1816, -53.1816, 75.4274, -75.4274,
	}
)

// Set subpath parameters, every field is N×M
type Set struct {
	Powers     [][]float64 `yaml:"powers"`
	Phases     [][]float64 `yaml:"phases"` // degrees
	AoDOffsets [][]float64 `yaml:"aodOffsets"`
	AoAOffsets [][]float64 `yaml:"aoaOffsets"` // already associated to the BS subpaths
}

// N number of paths
func (s *Set) N() int {
	return len(s.Powers)
}

// M number of subpaths per path
func (s *Set) M() int {
	if len(s.Powers) == 0 {
		return 0
	}
	return len(s.Powers[0])
}

func checkCount(m int) error {
	if m <= 0 || m > model.MaxSubpaths {
		return errors.NewInvalid("number of subpaths must be in [1, %d]: M=%d", model.MaxSubpaths, m)
	}
	return nil
}

// Split divides every path power equally among m subpaths
func Split(powers []float64, m int) ([][]float64, error) {
	if err := checkCount(m); err != nil {
		return nil, err
	}
	out := make([][]float64, len(powers))
	for n, p := range powers {
		out[n] = make([]float64, m)
		for i := range out[n] {
			out[n][i] = p / float64(m)
		}
	}
	return out, nil
}

// Phases draws n×m independent phases in [0, 360), row by row
func Phases(src *utils.Source, n, m int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, m)
		for j := range out[i] {
			out[i][j] = src.Uniform(0, 360)
		}
	}
	return out
}

// tile repeats the first m entries of table for n paths
func tile(table [model.MaxSubpaths]float64, n, m int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, m)
		copy(out[i], table[:m])
	}
	return out
}

// Associate pairs MS subpaths with BS subpaths by permuting every path's AoA
// offsets with its own random permutation. Draws one permutation per path.
func Associate(src *utils.Source, aoaOffsets [][]float64) [][]float64 {
	out := make([][]float64, len(aoaOffsets))
	for n, row := range aoaOffsets {
		perm := src.Perm(len(row))
		out[n] = make([]float64, len(row))
		for i, p := range perm {
			out[n][i] = row[p]
		}
	}
	return out
}

// Synthesize expands N paths into M subpaths each.
// Draw order: N×M phases, then N permutations.
func Synthesize(src *utils.Source, powers []float64, m int) (*Set, error) {
	n := len(powers)
	subpathPowers, err := Split(powers, m)
	if err != nil {
		return nil, err
	}
	phases := Phases(src, n, m)
	aoa := Associate(src, tile(AoAOffsets, n, m))

	return &Set{
		Powers:     subpathPowers,
		Phases:     phases,
		AoDOffsets: tile(AoDOffsets, n, m),
		AoAOffsets: aoa,
	}, nil
}

// Angles absolute subpath angles in degrees, normalized to (-180, 180]
type Angles struct {
	AoD [][]float64
	AoA [][]float64
}

// AbsoluteAngles adds the LOS directions and the path deviations to the
// subpath offsets
func AbsoluteAngles(g model.Geometry, ps *paths.PathSet, s *Set) (*Angles, error) {
	if ps.Len() != s.N() {
		return nil, errors.NewInvalid("path count %d does not match subpath set %d", ps.Len(), s.N())
	}
	aod := make([][]float64, s.N())
	aoa := make([][]float64, s.N())
	for n := range aod {
		aod[n] = make([]float64, s.M())
		aoa[n] = make([]float64, s.M())
		for m := range aod[n] {
			aod[n][m] = g.ThetaBS + ps.AoD[n] + s.AoDOffsets[n][m]
			aoa[n][m] = g.ThetaMS + ps.AoA[n] + s.AoAOffsets[n][m]
		}
	}
	return &Angles{
		AoD: utils.NormalizeAngles(aod),
		AoA: utils.NormalizeAngles(aoa),
	}, nil
}
