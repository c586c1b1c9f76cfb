// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"math"

	"github.com/tomtom215/reelmatch/internal/catalog"
)

// ErrDimensionMismatch is returned when vectors of different length are compared.
var ErrDimensionMismatch = fmt.Errorf("%w: vector dimension mismatch", catalog.ErrInvalidInput)

// Cosine returns the cosine similarity of u and v. The similarity is 0 when either vector
// has zero norm.
func Cosine(u, v []float64) (float64, error) {
	if len(u) != len(v) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(u), len(v))
	}

	var dot, normU, normV float64
	for i := range u {
		dot += u[i] * v[i]
		normU += u[i] * u[i]
		normV += v[i] * v[i]
	}
	if normU == 0 || normV == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normU) * math.Sqrt(normV)), nil
}
