package capacity

import (
	"github.com/onosproject/onos-lib-go/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// realEmbedding returns the real 2U×2S matrix [[Re H, −Im H], [Im H, Re H]].
// Each singular value of H appears twice among the singular values of the
// embedding.
func realEmbedding(h mat.CMatrix) *mat.Dense {
	u, s := h.Dims()
	e := mat.NewDense(2*u, 2*s, nil)
	for i := 0; i < u; i++ {
		for j := 0; j < s; j++ {
			v := h.At(i, j)
			e.Set(i, j, real(v))
			e.Set(i, j+s, -imag(v))
			e.Set(i+u, j, imag(v))
			e.Set(i+u, j+s, real(v))
		}
	}
	return e
}

// SingularValues returns the min(U, S) singular values of a complex U×S
// matrix in descending order
func SingularValues(h mat.CMatrix) ([]float64, error) {
	u, s := h.Dims()
	k := u
	if s < k {
		k = s
	}

	var svd mat.SVD
	if ok := svd.Factorize(realEmbedding(h), mat.SVDNone); !ok {
		return nil, errors.NewInternal("singular value decomposition failed")
	}
	doubled := svd.Values(nil)

	values := make([]float64, k)
	for i := range values {
		values[i] = doubled[2*i]
	}
	return values, nil
}

// Diagonal returns the U×S matrix holding values on its main diagonal
func Diagonal(u, s int, values []float64) *mat.Dense {
	d := mat.NewDense(u, s, nil)
	for i, v := range values {
		if i < u && i < s {
			d.Set(i, i, v)
		}
	}
	return d
}
