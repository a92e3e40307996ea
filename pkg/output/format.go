package output

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrNoSamples is returned when asked to write a result that holds no samples
var ErrNoSamples = errors.New("result has no samples")

// Format is an image file format the renderer can write
type Format int

const (
	PNG Format = iota // 8-bit RGBA, gamma corrected
	PFM               // 32-bit float RGB, linear radiance
)

// ParseFormat parses a format name such as "png" or "pfm"
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return PNG, nil
	case "pfm":
		return PFM, nil
	}
	return 0, errors.Errorf("unknown image format %q", name)
}

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case PFM:
		return "pfm"
	}
	return "unknown"
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + f.String()
}

// ContentType returns the MIME type stored with blobs of this format
func (f Format) ContentType() string {
	if f == PFM {
		return "image/x-portable-floatmap"
	}
	return "image/png"
}
