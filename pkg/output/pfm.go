package output

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// WritePFM writes the averaged linear radiance as a little-endian color
// Portable Float Map. PFM stores rows bottom to top, so rows are flipped.
func WritePFM(w io.Writer, result *renderer.Result) error {
	if result.Samples <= 0 {
		return errors.Wrap(ErrNoSamples, "pfm")
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "PF\n%d %d\n-1.0\n", result.Width, result.Height); err != nil {
		return errors.Wrap(err, "pfm: writing header")
	}

	scale := 1.0 / float64(result.Samples)
	stride := result.Width * 3
	var buf [4]byte
	for y := result.Height - 1; y >= 0; y-- {
		for _, v := range result.Sum[y*stride : (y+1)*stride] {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(v*scale)))
			if _, err := bw.Write(buf[:]); err != nil {
				return errors.Wrap(err, "pfm: writing pixels")
			}
		}
	}

	return errors.Wrap(bw.Flush(), "pfm: flushing")
}
