// Package arraygo provides typed nullable arrays and sampled series for Go.
//
// Arraygo is an embeddable container library for scientific data-reduction
// pipelines. It combines element-level validity tracking with snapshot
// persistence over local disk or object storage.
//
// # Quick Start
//
// Local mode:
//
//	ctx := context.Background()
//	cat, _ := arraygo.Open(ctx, arraygo.Local("./data"))
//
// Cloud mode:
//
//	store := s3.NewStore(client, "my-bucket", "arrays/", s3.UploadConfig{})
//	cat, _ := arraygo.Open(ctx, arraygo.Remote(store))
//	cat, _ := arraygo.Open(ctx, arraygo.Remote(store), arraygo.WithCache(256<<20, 0))
//
// # Containers
//
// Three container kinds cover the common pipeline shapes:
//
//	// Typed nullable array. New elements start invalid until written.
//	a, _ := array.New(dtype.Float64, 1024)
//	a.SetFloat(0, 3.5)
//
//	// Dense float64 vector.
//	v, _ := vector.Wrap([]float64{1, 2, 3})
//
//	// Paired (x, y) sampled series with interpolation and sorting.
//	b, _ := bivector.Wrap(xs, ys)
//	bivector.InterpolateLinear(b, reference)
//
// # Persistence
//
// Containers save as checksummed, optionally compressed snapshots. A
// versioned manifest tracks what exists in the catalog:
//
//	cat.SaveArray(ctx, "flux", a)
//	a2, _ := cat.LoadArray(ctx, "flux")
//
// Concurrent writers on object storage should configure a commit store so
// manifest updates are compare-and-swapped:
//
//	commit := s3.NewDDBCommitStore(ddbClient, "arraygo-commits", "s3://bucket/cat")
//	cat, _ := arraygo.Open(ctx, arraygo.Remote(store), arraygo.WithCommitStore(commit))
package arraygo
