package output

import (
	"image/png"
	"io"

	"github.com/pkg/errors"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// WritePNG encodes the averaged, gamma corrected result as an 8-bit RGBA PNG
func WritePNG(w io.Writer, result *renderer.Result) error {
	if result.Samples <= 0 {
		return errors.Wrap(ErrNoSamples, "png")
	}
	if err := png.Encode(w, result.Image()); err != nil {
		return errors.Wrap(err, "encoding png")
	}
	return nil
}
