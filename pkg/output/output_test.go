package output

import (
	"bytes"
	"context"
	"encoding/binary"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gocloud.dev/blob/memblob"

	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

// testResult is a 2x2 image: red, green on top; blue, white below
func testResult() *renderer.Result {
	return &renderer.Result{
		Width:  2,
		Height: 2,
		Sum: []float64{
			2, 0, 0, 0, 2, 0,
			0, 0, 2, 2, 2, 2,
		},
		Samples: 2,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		expected Format
		wantErr  bool
	}{
		{"png", PNG, false},
		{"PNG", PNG, false},
		{".pfm", PFM, false},
		{"exr", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testResult()); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a valid png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("unexpected bounds %v", b)
	}

	r, g, _, a := img.At(0, 0).RGBA()
	if r>>8 != 255 || g != 0 || a>>8 != 255 {
		t.Errorf("top left should be opaque red, got r=%d g=%d a=%d", r>>8, g>>8, a>>8)
	}
	_, _, b, _ := img.At(0, 1).RGBA()
	if b>>8 != 255 {
		t.Errorf("bottom left should be blue, got b=%d", b>>8)
	}
}

func TestWritePFM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePFM(&buf, testResult()); err != nil {
		t.Fatalf("WritePFM failed: %v", err)
	}

	header := "PF\n2 2\n-1.0\n"
	data := buf.Bytes()
	if !strings.HasPrefix(string(data), header) {
		t.Fatalf("unexpected header %q", data[:len(header)])
	}

	pixels := data[len(header):]
	if len(pixels) != 2*2*3*4 {
		t.Fatalf("expected %d bytes of pixels, got %d", 2*2*3*4, len(pixels))
	}

	floats := make([]float32, len(pixels)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(pixels[i*4:]))
	}

	// The bottom row (blue, white) comes first, averaged over 2 samples
	want := []float32{0, 0, 1, 1, 1, 1, 1, 0, 0, 0, 1, 0}
	for i := range want {
		if floats[i] != want[i] {
			t.Fatalf("pixel data = %v, want %v", floats, want)
		}
	}
}

func TestWrite_NoSamples(t *testing.T) {
	result := testResult()
	result.Samples = 0
	if err := WritePFM(&bytes.Buffer{}, result); !errors.Is(err, ErrNoSamples) {
		t.Errorf("WritePFM error = %v, want ErrNoSamples", err)
	}
	if err := WritePNG(&bytes.Buffer{}, result); !errors.Is(err, ErrNoSamples) {
		t.Errorf("WritePNG error = %v, want ErrNoSamples", err)
	}
}

func TestSink_Write(t *testing.T) {
	ctx := context.Background()
	sink := NewSink(memblob.OpenBucket(nil))
	defer sink.Close()

	tests := []struct {
		key      string
		format   Format
		expected string
		prefix   string
	}{
		{"renders/weekend", PNG, "renders/weekend.png", "\x89PNG"},
		{"renders/weekend", PFM, "renders/weekend.pfm", "PF\n"},
		{"custom.img", PNG, "custom.img", "\x89PNG"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			key, err := sink.Write(ctx, tt.key, tt.format, testResult())
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if key != tt.expected {
				t.Errorf("key = %q, want %q", key, tt.expected)
			}

			data, err := sink.Bucket().ReadAll(ctx, key)
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("blob starts with %q, want %q", data[:4], tt.prefix)
			}

			attrs, err := sink.Bucket().Attributes(ctx, key)
			if err != nil {
				t.Fatalf("Attributes failed: %v", err)
			}
			if attrs.ContentType != tt.format.ContentType() {
				t.Errorf("content type = %q, want %q", attrs.ContentType, tt.format.ContentType())
			}
		})
	}
}

func TestOpenSink_File(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	sink, err := OpenSink(ctx, "file://"+filepath.ToSlash(dir))
	if err != nil {
		t.Fatalf("OpenSink failed: %v", err)
	}
	defer sink.Close()

	if _, err := sink.Write(ctx, "out", PNG, testResult()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.png")); err != nil {
		t.Errorf("expected out.png on disk: %v", err)
	}
}

func TestOpenSink_UnknownScheme(t *testing.T) {
	if _, err := OpenSink(context.Background(), "nope://bucket"); err == nil {
		t.Error("expected an error for an unregistered scheme")
	}
}
