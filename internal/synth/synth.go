// Package synth fabricates the labor and tide datasets that have no
// machine-readable public source.
package synth

import (
	"errors"
	"math/rand/v2"
)

// ErrInvalidRange is returned when a generator's time range is empty.
var ErrInvalidRange = errors.New("invalid generator range")

func newSource(seed int64) rand.Source {
	return rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)
}
