package solver

import (
	"fmt"
	"math"
	"testing"

	"github.com/onosproject/onos-lib-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerForCapacitySingleStream(t *testing.T) {
	noise := 1e-3
	capacityAt := func(p float64) (float64, error) {
		return math.Log2(1 + p/noise), nil
	}

	power, err := PowerForCapacity(capacityAt, 10, 1)
	require.NoError(t, err)
	expected := noise * (math.Pow(2, 10) - 1)
	assert.InDelta(t, expected, power, expected*1e-4)
}

func TestPowerForCapacityTwoStreams(t *testing.T) {
	// equal gains share the power evenly
	capacityAt := func(p float64) (float64, error) {
		return 2 * math.Log2(1+p/2), nil
	}
	power, err := PowerForCapacity(capacityAt, 4, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, power, 6e-4)
}

func TestPowerForCapacityErrors(t *testing.T) {
	capacityAt := func(p float64) (float64, error) { return p, nil }
	_, err := PowerForCapacity(capacityAt, 0, 1)
	assert.True(t, errors.IsInvalid(err))
	_, err = PowerForCapacity(capacityAt, 1, 0)
	assert.True(t, errors.IsInvalid(err))

	failing := func(p float64) (float64, error) {
		return 0, fmt.Errorf("channel unavailable")
	}
	_, err = PowerForCapacity(failing, 1, 1)
	assert.Error(t, err)
}

func TestPowerForCapacityUnreachable(t *testing.T) {
	// capacity saturates below the target
	capacityAt := func(p float64) (float64, error) {
		return 1, nil
	}
	_, err := PowerForCapacity(capacityAt, 5, 1)
	assert.True(t, errors.IsInternal(err))
}
