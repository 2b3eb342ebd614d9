package bivector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraygo/core"
)

func TestReadParsesPairs(t *testing.T) {
	in := strings.NewReader(`
# wavelength  flux
1.0   10
2.0   20

3.0   30
`)
	b, err := Read(in)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, b.X().Data())
	assert.Equal(t, []float64{10, 20, 30}, b.Y().Data())
}

func TestReadErrors(t *testing.T) {
	_, err := Read(nil)
	assert.ErrorIs(t, err, core.ErrNullInput)

	_, err = Read(strings.NewReader("1.0\n"))
	assert.ErrorIs(t, err, core.ErrIllegalInput)

	_, err = Read(strings.NewReader("1.0 abc\n"))
	assert.ErrorIs(t, err, core.ErrIllegalInput)

	_, err = Read(strings.NewReader("# only comments\n"))
	assert.ErrorIs(t, err, core.ErrDataNotFound)
}

func TestDumpReadRoundTrip(t *testing.T) {
	b := wrap(t, []float64{0.5, 1.25, -3}, []float64{10, 0.125, 7})

	var sb strings.Builder
	require.NoError(t, b.Dump(&sb))

	got, err := Read(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, b.X().Data(), got.X().Data())
	assert.Equal(t, b.Y().Data(), got.Y().Data())
}
