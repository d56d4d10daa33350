package capacity

import (
	"math"
	"testing"

	"github.com/nfvri/mimo-simulator/pkg/channel"
	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/nfvri/mimo-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestSingularValues(t *testing.T) {
	diag := mat.NewCDense(2, 2, []complex128{3, 0, 0, 1})
	sv, err := SingularValues(diag)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 1}, sv, 1e-12)

	// H^H·H = 2·I
	unitary := mat.NewCDense(2, 2, []complex128{1, 1i, 1i, 1})
	sv, err = SingularValues(unitary)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{math.Sqrt2, math.Sqrt2}, sv, 1e-12)

	ones := mat.NewCDense(2, 3, []complex128{1, 1, 1, 1, 1, 1})
	sv, err = SingularValues(ones)
	require.NoError(t, err)
	require.Len(t, sv, 2)
	assert.InDelta(t, math.Sqrt(6), sv[0], 1e-12)
	assert.InDelta(t, 0.0, sv[1], 1e-12)

	phased := mat.NewCDense(1, 1, []complex128{3 + 4i})
	sv, err = SingularValues(phased)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5}, sv, 1e-12)
}

func TestDiagonal(t *testing.T) {
	d := Diagonal(2, 3, []float64{1, 2})
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.0, d.At(0, 0))
	assert.Equal(t, 2.0, d.At(1, 1))
	assert.Equal(t, 0.0, d.At(0, 1))
	assert.Equal(t, 3.0, mat.Sum(d))
}

func TestWaterFillTwoStreams(t *testing.T) {
	alloc, iterations, err := WaterFill([]float64{4, 1}, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, iterations)
	assert.InDeltaSlice(t, []float64{0.875, 0.125}, alloc, 1e-12)
}

func TestWaterFillDropsWeakStream(t *testing.T) {
	alloc, iterations, err := WaterFill([]float64{0.1, 1}, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, iterations)
	// stream order is preserved
	assert.InDeltaSlice(t, []float64{0, 1}, alloc, 1e-12)
}

func TestWaterFillCascade(t *testing.T) {
	gains := []float64{1, 1 / 1.5, 1 / 1.9, 1.0 / 11}
	alloc, iterations, err := WaterFill(gains, 1, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, iterations)
	assert.InDeltaSlice(t, []float64{0.75, 0.25, 0, 0}, alloc, 1e-9)

	_, _, err = WaterFill(gains, 1, 1, 1)
	assert.True(t, errors.IsTimeout(err))
}

func TestWaterFillWideGainSpread(t *testing.T) {
	cases := []struct {
		gains    []float64
		expected []float64
	}{
		{[]float64{1, 1e-17}, []float64{1, 0}},
		{[]float64{1e-6, 1e-22}, []float64{1, 0}},
		{[]float64{2, 1, 1e-18}, []float64{0.75, 0.25, 0}},
		{[]float64{1e-18, 2, 1}, []float64{0, 0.75, 0.25}},
	}
	for _, c := range cases {
		alloc, _, err := WaterFill(c.gains, 1, 1, 0)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, floats.Sum(alloc), 1e-12, "gains %v", c.gains)
		assert.InDeltaSlice(t, c.expected, alloc, 1e-12, "gains %v", c.gains)
	}
}

func TestWaterFillProperties(t *testing.T) {
	src := utils.NewSource(11)
	for trial := 0; trial < 50; trial++ {
		gains := make([]float64, 1+trial%9)
		for i := range gains {
			gains[i] = math.Pow(10, src.Uniform(-14, -8))
		}
		budget := src.Uniform(0.01, 10)
		alloc, _, err := WaterFill(gains, budget, 1e-13, 0)
		require.NoError(t, err)
		for _, p := range alloc {
			assert.GreaterOrEqual(t, p, 0.0)
		}
		assert.LessOrEqual(t, floats.Sum(alloc), budget*(1+1e-9))
		assert.InDelta(t, budget, floats.Sum(alloc), budget*1e-9)

		// stronger streams never get less power
		for i := range gains {
			for j := range gains {
				if gains[i] > gains[j] {
					assert.GreaterOrEqual(t, alloc[i], alloc[j]-1e-12)
				}
			}
		}
	}
}

func TestWaterFillEdgeCases(t *testing.T) {
	alloc, _, err := WaterFill([]float64{1, 2, 3}, 0, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, alloc)

	alloc, _, err = WaterFill([]float64{0, 2, 0}, 5, 1, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 5, 0}, alloc, 1e-12)

	alloc, _, err = WaterFill([]float64{0, 0}, 5, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, alloc)

	_, _, err = WaterFill([]float64{1}, 1, 0, 0)
	assert.True(t, errors.IsInvalid(err))
	_, _, err = WaterFill([]float64{1}, -1, 1, 0)
	assert.True(t, errors.IsInvalid(err))
	_, _, err = WaterFill([]float64{-1}, 1, 1, 0)
	assert.True(t, errors.IsInvalid(err))
	_, _, err = WaterFill([]float64{math.NaN()}, 1, 1, 0)
	assert.True(t, errors.IsInvalid(err))
}

func TestWaterFillRows(t *testing.T) {
	rows, err := WaterFillRows([][]float64{{4, 1}, {0.1, 1}}, 1, 1, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.InDeltaSlice(t, []float64{0.875, 0.125}, rows[0], 1e-12)
	assert.InDeltaSlice(t, []float64{0, 1}, rows[1], 1e-12)
}

func TestUniform(t *testing.T) {
	alloc, err := Uniform(4, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, alloc)

	_, err = Uniform(0, 2)
	assert.True(t, errors.IsInvalid(err))
}

func TestStreamCapacity(t *testing.T) {
	c := StreamCapacity([]float64{1, 3, 0}, []float64{1, 1, 7}, 1)
	assert.InDeltaSlice(t, []float64{1, 2, 0}, c, 1e-12)
}

func randomTensor(t *testing.T, n, s, u int, seed uint64) *channel.Tensor {
	src := utils.NewSource(seed)
	tensor := channel.NewTensor(u, s, n)
	for p := range tensor.Paths {
		for i := 0; i < u; i++ {
			for j := 0; j < s; j++ {
				v := complex(src.Normal(0, 1e-6), src.Normal(0, 1e-6))
				tensor.Paths[p].Set(i, j, v)
			}
		}
	}
	return tensor
}

func TestEvaluate(t *testing.T) {
	tensor := randomTensor(t, 6, 2, 2, 5)
	result, err := Evaluate(tensor, 1, 1e-13, model.PolicyWaterFilling, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, model.PolicyWaterFilling, result.Policy)
	require.Len(t, result.Paths, 6)
	r, c := result.Aggregate.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.InDelta(t, 1.0, mat.Sum(result.Aggregate), 1e-9)
	assert.Greater(t, result.AggregateCapacity, 0.0)
	assert.True(t, utils.IsFinite(result.AggregateCapacity))
	assert.InDelta(t, result.AggregateCapacity, floats.Sum(result.PathCapacities()), 1e-9)

	for _, pa := range result.Paths {
		require.Len(t, pa.SingularValues, 2)
		assert.GreaterOrEqual(t, pa.SingularValues[0], pa.SingularValues[1])
		assert.Equal(t, 0.0, pa.Allocation.At(0, 1))
		assert.Equal(t, 0.0, pa.Allocation.At(1, 0))
	}

	uniform, err := Evaluate(tensor, 1, 1e-13, model.PolicyUniform, 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mat.Sum(uniform.Aggregate), 1e-12)
	assert.InDelta(t, 1.0/12, uniform.Paths[0].Powers[0], 1e-15)
	assert.GreaterOrEqual(t, result.AggregateCapacity, uniform.AggregateCapacity-1e-9)
}

func TestEvaluateMonotonicInPower(t *testing.T) {
	tensor := randomTensor(t, 4, 3, 2, 8)
	previous := 0.0
	for _, budget := range []float64{0.01, 0.1, 1, 10} {
		result, err := Evaluate(tensor, budget, 1e-13, model.PolicyWaterFilling, 0, 0)
		require.NoError(t, err)
		assert.Greater(t, result.AggregateCapacity, previous)
		previous = result.AggregateCapacity
	}
}

func TestEvaluateErrors(t *testing.T) {
	tensor := randomTensor(t, 2, 2, 2, 1)
	_, err := Evaluate(tensor, 1, 0, model.PolicyWaterFilling, 0, 0)
	assert.True(t, errors.IsInvalid(err))
	_, err = Evaluate(tensor, 1, 1e-13, "greedy", 0, 0)
	assert.True(t, errors.IsInvalid(err))
	_, err = Evaluate(channel.NewTensor(2, 2, 0), 1, 1e-13, model.PolicyUniform, 0, 0)
	assert.True(t, errors.IsInvalid(err))
}

func TestEvaluateZeroPower(t *testing.T) {
	tensor := randomTensor(t, 3, 2, 2, 4)
	result, err := Evaluate(tensor, 0, 1e-13, model.PolicyWaterFilling, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.AggregateCapacity)
	assert.Equal(t, 0.0, mat.Sum(result.Aggregate))
}
