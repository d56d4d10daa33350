package correlation

import (
	"math"

	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// eigenTolerance bounds how negative an eigenvalue of A-B may be before the
// matrix is rejected. Smaller negatives are round-off and are clamped.
const eigenTolerance = 1e-10

const (
	ds = iota
	as
	sf
)

// Params inputs of the large scale parameter generator
type Params struct {
	N       int
	RhoDSAS float64
	RhoSFAS float64
	RhoSFDS float64
	ZethaSF float64 // inter-site shadow fading correlation
	EpsDS   float64
	MuDS    float64
	EpsAS   float64
	MuAS    float64
	SigmaSH float64 // shadow fading std-dev in dB
}

// LargeScale per path delay spread, angle spread and shadow fading scales
type LargeScale struct {
	DelaySpread  []float64 `yaml:"delaySpread"`
	AngleSpread  []float64 `yaml:"angleSpread"`
	ShadowFading []float64 `yaml:"shadowFading"`
}

// IntraSite builds the 3x3 correlation matrix A of (DS, AS, SF)
func IntraSite(rhoDSAS, rhoSFAS, rhoSFDS float64) *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		1, rhoDSAS, rhoSFDS,
		rhoDSAS, 1, rhoSFAS,
		rhoSFDS, rhoSFAS, 1,
	})
}

// InterSite builds the 3x3 matrix B, zero except the SF/SF entry
func InterSite(zetha float64) *mat.SymDense {
	b := mat.NewSymDense(3, nil)
	b.SetSym(sf, sf, zetha)
	return b
}

// SqrtPSD returns the principal square root of a symmetric positive
// semi-definite matrix
func SqrtPSD(a mat.Symmetric) (*mat.SymDense, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(a, true); !ok {
		return nil, errors.NewInternal("eigen decomposition failed")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	n := a.SymmetricDim()
	root := mat.NewSymDense(n, nil)
	for i, v := range values {
		if v < -eigenTolerance {
			return nil, errors.NewInternal("matrix is not positive semi-definite: eigenvalue %v", v)
		}
		if v <= 0 {
			if v < 0 {
				log.Debugf("Clamping eigenvalue %v to zero", v)
			}
			continue
		}
		col := mat.NewVecDense(n, mat.Col(nil, i, &vectors))
		root.SymRankOne(root, math.Sqrt(v), col)
	}
	return root, nil
}

// Generate draws the correlated large scale parameters of N paths.
// Draws 3 global then 3×N row-major standard normals from src.
func Generate(src *utils.Source, p Params) (LargeScale, error) {
	if p.N <= 0 {
		return LargeScale{}, errors.NewInvalid("number of paths must be positive: N=%d", p.N)
	}
	if p.ZethaSF < 0 {
		return LargeScale{}, errors.NewInternal("inter-site correlation must not be negative: %v", p.ZethaSF)
	}

	var negB, diff mat.SymDense
	negB.ScaleSym(-1, InterSite(p.ZethaSF))
	diff.AddSym(IntraSite(p.RhoDSAS, p.RhoSFAS, p.RhoSFDS), &negB)
	root, err := SqrtPSD(&diff)
	if err != nil {
		return LargeScale{}, err
	}

	global := src.StdNormal(3)
	w := mat.NewDense(3, p.N, src.StdNormal(3*p.N))

	var z mat.Dense
	z.Mul(root, w)
	shared := math.Sqrt(p.ZethaSF) * global[sf]
	for n := 0; n < p.N; n++ {
		z.Set(sf, n, z.At(sf, n)+shared)
	}

	ls := LargeScale{
		DelaySpread:  make([]float64, p.N),
		AngleSpread:  make([]float64, p.N),
		ShadowFading: make([]float64, p.N),
	}
	for n := 0; n < p.N; n++ {
		ls.DelaySpread[n] = math.Pow(10, p.EpsDS*z.At(ds, n)+p.MuDS)
		ls.AngleSpread[n] = math.Pow(10, p.EpsAS*z.At(as, n)+p.MuAS)
		ls.ShadowFading[n] = math.Pow(10, p.SigmaSH*z.At(sf, n)/10)
	}

	if !utils.IsFinite(ls.DelaySpread...) || !utils.IsFinite(ls.AngleSpread...) || !utils.IsFinite(ls.ShadowFading...) {
		return LargeScale{}, errors.NewInternal("large scale parameters overflowed")
	}
	return ls, nil
}
