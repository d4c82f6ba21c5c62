// Package noise provides the NoiseService: deterministic 2D/3D coherent
// noise over world coordinates, seeded once at startup and safe to call
// concurrently thereafter.
package noise

import "github.com/ojrac/opensimplex-go"

// Service wraps a seeded simplex generator and remaps its native [-1, 1]
// output to [0, 1], per the core's noise contract.
type Service struct {
	gen opensimplex.Noise
}

// NewService seeds a new Service. Identical seeds produce identical output
// for identical inputs, across runs and goroutines.
func NewService(seed int64) *Service {
	return &Service{gen: opensimplex.New(seed)}
}

func remap(v float64) float64 {
	return (v + 1) / 2
}

// Noise2 samples 2D noise at (x, z) scaled by freq, returned in [0, 1].
func (s *Service) Noise2(x, z, freq float64) float64 {
	return remap(s.gen.Eval2(x*freq, z*freq))
}

// Noise3 samples 3D noise at (x, y, z) scaled by freq, returned in [0, 1].
func (s *Service) Noise3(x, y, z, freq float64) float64 {
	return remap(s.gen.Eval3(x*freq, y*freq, z*freq))
}

// CaveNoise is the composite three-octave noise driving the cave carving
// pass: 0.5 large + 0.3 medium + 0.2 small, each at its own frequency.
func (s *Service) CaveNoise(x, y, z, largeFreq, mediumFreq, smallFreq float64) float64 {
	large := s.Noise3(x, y, z, largeFreq)
	medium := s.Noise3(x, y, z, mediumFreq)
	small := s.Noise3(x, y, z, smallFreq)
	return 0.5*large + 0.3*medium + 0.2*small
}
