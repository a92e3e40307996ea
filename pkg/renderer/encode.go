package renderer

import (
	"image"
	"math"
)

// EncodeToBytes converts accumulated sums into 8-bit RGBA. Each channel is
// averaged over samples, clamped to [0,1], gamma corrected with a square
// root and scaled to [0,255]. Alpha is always 255. samples must be positive.
func EncodeToBytes(sum []float64, samples int) []byte {
	if samples <= 0 {
		panic("renderer: EncodeToBytes needs a positive sample count")
	}

	scale := 1.0 / float64(samples)
	out := make([]byte, len(sum)/3*4)
	for p := 0; p < len(sum)/3; p++ {
		out[p*4+0] = encodeChannel(sum[p*3+0] * scale)
		out[p*4+1] = encodeChannel(sum[p*3+1] * scale)
		out[p*4+2] = encodeChannel(sum[p*3+2] * scale)
		out[p*4+3] = 255
	}
	return out
}

func encodeChannel(v float64) byte {
	// NaN fails every comparison and ends up black
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return byte(math.Sqrt(v) * 255.99)
}

// ToImage wraps the encoded bytes of a width x height buffer in an image
func ToImage(sum []float64, width, height, samples int) *image.RGBA {
	return &image.RGBA{
		Pix:    EncodeToBytes(sum, samples),
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}
