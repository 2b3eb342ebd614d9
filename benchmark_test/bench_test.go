package benchmark_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/arraygo"
	"github.com/hupe1980/arraygo/bivector"
	"github.com/hupe1980/arraygo/dtype"
	"github.com/hupe1980/arraygo/persistence"
	"github.com/hupe1980/arraygo/testutil"
	"github.com/hupe1980/arraygo/vector"
)

func benchBivector(b *testing.B, rng *testutil.RNG, n int) *bivector.Bivector {
	b.Helper()
	return rng.LinearBivector(n, 0, 1000, 2, 5)
}

func BenchmarkInterpolateLinear(b *testing.B) {
	for _, n := range []int{1_000, 100_000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			rng := testutil.NewRNG(1)
			ref := benchBivector(b, rng, n)
			tgt := rng.LinearBivector(n, 1, 999, 0, 0)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := bivector.InterpolateLinear(tgt, ref); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSort(b *testing.B) {
	for _, n := range []int{1_000, 100_000} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			rng := testutil.NewRNG(2)

			xs := make([]float64, n)
			ys := make([]float64, n)
			rng.FillUniform(xs)
			rng.FillUniform(ys)

			x, _ := vector.Wrap(xs)
			y, _ := vector.Wrap(ys)
			src, _ := bivector.Wrap(x, y)
			dst, _ := bivector.New(n)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := bivector.Sort(dst, src, vector.Ascending, bivector.SortByX); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSnapshotWrite(b *testing.B) {
	rng := testutil.NewRNG(3)

	a, err := rng.RandomArray(dtype.Float64, 100_000, 0.05)
	if err != nil {
		b.Fatal(err)
	}

	for _, comp := range []persistence.Compression{
		persistence.CompressionNone,
		persistence.CompressionLZ4,
		persistence.CompressionZSTD,
	} {
		b.Run(comp.String(), func(b *testing.B) {
			opts := persistence.Options{Compression: comp}
			var buf bytes.Buffer

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf.Reset()
				if err := persistence.WriteArray(&buf, a, opts); err != nil {
					b.Fatal(err)
				}
			}
			b.SetBytes(int64(buf.Len()))
		})
	}
}

func BenchmarkSnapshotRead(b *testing.B) {
	rng := testutil.NewRNG(4)

	a, err := rng.RandomArray(dtype.Float64, 100_000, 0.05)
	if err != nil {
		b.Fatal(err)
	}

	var buf bytes.Buffer
	if err := persistence.WriteArray(&buf, a, persistence.Options{
		Compression: persistence.CompressionZSTD,
	}); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := persistence.ReadArray(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCatalogSaveLoad(b *testing.B) {
	ctx := context.Background()
	rng := testutil.NewRNG(5)

	a, err := rng.RandomArray(dtype.Float64, 10_000, 0.05)
	if err != nil {
		b.Fatal(err)
	}

	b.Run("save", func(b *testing.B) {
		cat, err := arraygo.Open(ctx, arraygo.Local(b.TempDir()))
		if err != nil {
			b.Fatal(err)
		}
		defer cat.Close()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err := cat.SaveArray(ctx, "bench", a); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("load", func(b *testing.B) {
		cat, err := arraygo.Open(ctx, arraygo.Local(b.TempDir()))
		if err != nil {
			b.Fatal(err)
		}
		defer cat.Close()

		if err := cat.SaveArray(ctx, "bench", a); err != nil {
			b.Fatal(err)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := cat.LoadArray(ctx, "bench"); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkBatchResample(b *testing.B) {
	ctx := context.Background()
	rng := testutil.NewRNG(6)

	ref := rng.LinearBivector(10_000, 0, 1000, 1.5, 0)
	targets := make([]*bivector.Bivector, 32)
	for i := range targets {
		targets[i] = rng.LinearBivector(1_000, 1, 999, 0, 0)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := bivector.InterpolateAll(ctx, ref, targets, 0); err != nil {
			b.Fatal(err)
		}
	}
}
