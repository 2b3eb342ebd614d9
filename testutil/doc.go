// Package testutil provides testing utilities for arraygo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random sample data, monotone
// abscissa grids, and partially invalid arrays.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	data := make([]float64, 128)
//	rng.FillUniform(data)      // uniform [0, 1)
//	rng.FillGaussian(data)     // standard normal
//
// # Sampled Series
//
//	xs := rng.MonotoneAbscissas(100, 0, 10)  // strictly increasing grid
//	ys := testutil.LinearSamples(xs, 2, 1)   // y = 2x + 1
//
// # Nullable Arrays
//
//	a, _ := testutil.RandomArray(rng, dtype.Float64, 256, 0.1)
package testutil
