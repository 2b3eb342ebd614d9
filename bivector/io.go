package bivector

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/arraygo/core"
	"github.com/hupe1980/arraygo/vector"
)

// Read parses a two-column plain-text stream into a bivector. Each
// non-empty line holds an x and a y value separated by whitespace; lines
// starting with '#' are comments. At least one pair is required.
func Read(r io.Reader) (*Bivector, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: reader", core.ErrNullInput)
	}

	var xs, ys []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: need two columns", core.ErrIllegalInput, line)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", core.ErrIllegalInput, line, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", core.ErrIllegalInput, line, err)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: no data pairs", core.ErrDataNotFound)
	}

	x, err := vector.Wrap(xs)
	if err != nil {
		return nil, err
	}
	y, _ := vector.Wrap(ys)
	return Wrap(x, y)
}

// Dump writes the pairs as two whitespace-separated columns, one pair per
// line, in a form Read accepts.
func (b *Bivector) Dump(w io.Writer) error {
	if err := b.check(); err != nil {
		return err
	}
	xs, ys := b.x.Data(), b.y.Data()
	for i := range xs {
		if _, err := fmt.Fprintf(w, "%g\t%g\n", xs[i], ys[i]); err != nil {
			return err
		}
	}
	return nil
}
