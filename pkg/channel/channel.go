package channel

import (
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// Tensor narrowband channel response of shape (U, S, N): one U×S matrix per path
type Tensor struct {
	U     int
	S     int
	Paths []*mat.CDense
}

// NewTensor allocates a zero tensor
func NewTensor(u, s, n int) *Tensor {
	t := &Tensor{U: u, S: s, Paths: make([]*mat.CDense, n)}
	for i := range t.Paths {
		t.Paths[i] = mat.NewCDense(u, s, nil)
	}
	return t
}

// Shape returns (U, S, N)
func (t *Tensor) Shape() (int, int, int) {
	return t.U, t.S, len(t.Paths)
}

// At returns H[u, s, n]
func (t *Tensor) At(u, s, n int) complex128 {
	return t.Paths[n].At(u, s)
}

// Energy sum of |H|² over all entries
func (t *Tensor) Energy() float64 {
	var e float64
	for _, h := range t.Paths {
		for u := 0; u < t.U; u++ {
			for s := 0; s < t.S; s++ {
				v := h.At(u, s)
				e += real(v)*real(v) + imag(v)*imag(v)
			}
		}
	}
	return e
}

// Input everything the synthesizer needs. Per subpath fields are N×M, angles
// in degrees and absolute (LOS direction + path deviation + subpath offset).
type Input struct {
	AoD          [][]float64
	AoA          [][]float64
	Powers       [][]float64
	Phases       [][]float64
	BSGains      [][]float64
	MSGains      [][]float64
	ShadowFading []float64 // per path
	BSSpacing    float64   // wavelengths
	MSSpacing    float64   // wavelengths
	S            int
	U            int
	Frequency    float64 // Hz
	Velocity     float64 // m/s
	ThetaV       float64 // velocity heading, degrees
	Time         float64 // s
	Workers      int     // goroutines building paths, 0 uses GOMAXPROCS
}

func (in *Input) validate() error {
	n := len(in.AoD)
	if n == 0 {
		return errors.NewInvalid("no paths to build a channel for")
	}
	if in.S <= 0 || in.U <= 0 {
		return errors.NewInvalid("array sizes must be positive: S=%d U=%d", in.S, in.U)
	}
	if in.Frequency <= 0 {
		return errors.NewInternal("carrier frequency must be positive: %v", in.Frequency)
	}
	if len(in.ShadowFading) != n {
		return errors.NewInvalid("shadow fading scales %d do not match paths %d", len(in.ShadowFading), n)
	}
	for _, grid := range [][][]float64{in.AoA, in.Powers, in.Phases, in.BSGains, in.MSGains} {
		if len(grid) != n {
			return errors.NewInvalid("subpath grids differ in path count")
		}
		for p := range grid {
			if len(grid[p]) != len(in.AoD[p]) {
				return errors.NewInvalid("subpath grids differ in subpath count at path %d", p)
			}
		}
	}
	return nil
}

// steering returns exp(j·2π·i·d·sin θ) for i in [0, size), d in wavelengths
func steering(size int, spacing, thetaRad float64) []complex128 {
	out := make([]complex128, size)
	for i := range out {
		out[i] = cmplx.Exp(complex(0, 2*math.Pi*float64(i)*spacing*math.Sin(thetaRad)))
	}
	return out
}

// buildPath accumulates every subpath of path n into h
func buildPath(in *Input, n int, h *mat.CDense) {
	k := 2 * math.Pi / utils.Wavelength(in.Frequency)
	thetaV := utils.ToRadians(in.ThetaV)
	sf := math.Sqrt(in.ShadowFading[n])

	for m := range in.AoD[n] {
		aod := utils.ToRadians(in.AoD[n][m])
		aoa := utils.ToRadians(in.AoA[n][m])

		bs := steering(in.S, in.BSSpacing, aod)
		ms := steering(in.U, in.MSSpacing, aoa)

		doppler := cmplx.Exp(complex(0, k*in.Velocity*math.Cos(aoa-thetaV)*in.Time))
		phase := cmplx.Exp(complex(0, utils.ToRadians(in.Phases[n][m])))
		amplitude := math.Sqrt(in.Powers[n][m]) * sf * math.Sqrt(in.BSGains[n][m]) * math.Sqrt(in.MSGains[n][m])
		g := complex(amplitude, 0) * doppler * phase

		for u := 0; u < in.U; u++ {
			for s := 0; s < in.S; s++ {
				h.Set(u, s, h.At(u, s)+g*ms[u]*bs[s])
			}
		}
	}
}

// Build synthesizes the channel tensor. Paths are independent and draw no
// randomness, so they are built concurrently and the result does not depend
// on the worker count.
func Build(in Input) (*Tensor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	n := len(in.AoD)
	t := NewTensor(in.U, in.S, n)

	workers := in.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				buildPath(&in, p, t.Paths[p])
			}
		}()
	}
	for p := 0; p < n; p++ {
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	log.Debugf("Built channel tensor (%d, %d, %d) with %d workers", in.U, in.S, n, workers)
	return t, nil
}
