package solver

import (
	"math"

	"github.com/davidkleiven/gononlin/nonlin"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CapacityFunc returns the capacity reached with a total transmit power in W
type CapacityFunc func(power float64) (float64, error)

// residualTolerance accepted mismatch in bit/s/Hz
const residualTolerance = 1e-6

// PowerForCapacity finds the total transmit power at which capacityAt reaches
// target. The search runs on log10 of the power, starting from initial.
func PowerForCapacity(capacityAt CapacityFunc, target, initial float64) (float64, error) {
	if target <= 0 || math.IsNaN(target) || math.IsInf(target, 0) {
		return 0, errors.NewInvalid("target capacity must be positive: %v", target)
	}
	if initial <= 0 {
		return 0, errors.NewInvalid("initial power guess must be positive: %v", initial)
	}

	if _, err := capacityAt(initial); err != nil {
		return 0, err
	}

	var evalErr error
	problem := nonlin.Problem{
		F: func(out, x []float64) {
			c, err := capacityAt(math.Pow(10, x[0]))
			if err != nil && evalErr == nil {
				evalErr = err
			}
			out[0] = c - target
		},
	}

	solver := nonlin.NewtonKrylov{
		// Maximum number of Newton iterations
		Maxiter: 200,

		// Stepsize used to approximate the derivative with finite differences
		StepSize: 1e-4,

		Tol: residualTolerance / 10,
	}

	res, err := solver.Solve(problem, []float64{math.Log10(initial)})
	if evalErr != nil {
		return 0, evalErr
	}
	if err != nil {
		return 0, errors.NewInternal("power search for %v bit/s/Hz failed: %v", target, err)
	}
	if len(res.F) == 0 || len(res.X) == 0 {
		return 0, errors.NewInternal("power search for %v bit/s/Hz returned no solution", target)
	}
	if math.IsNaN(res.F[0]) || math.Abs(res.F[0]) > residualTolerance {
		return 0, errors.NewInternal("no transmit power reaches %v bit/s/Hz, residual %v", target, res.F[0])
	}

	power := math.Pow(10, res.X[0])
	log.Debugf("Power for %v bit/s/Hz: %v W", target, power)
	return power, nil
}
