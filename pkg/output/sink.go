package output

import (
	"bytes"
	"context"
	"path"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets

	"github.com/df07/go-sphere-tracer/pkg/log"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
)

var logger = log.New("output")

// Sink stores encoded renders in a blob bucket
type Sink struct {
	bucket *blob.Bucket
}

// OpenSink opens the bucket at url, for example file:///tmp/renders, gs://bucket or mem://
func OpenSink(ctx context.Context, url string) (*Sink, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "opening bucket %s", url)
	}
	return NewSink(bucket), nil
}

// NewSink wraps an already open bucket. The sink takes ownership of it.
func NewSink(bucket *blob.Bucket) *Sink {
	return &Sink{bucket: bucket}
}

// Write encodes result in the given format and stores it under key. The
// format's extension is appended when key has none. It returns the key used.
func (s *Sink) Write(ctx context.Context, key string, format Format, result *renderer.Result) (string, error) {
	if path.Ext(key) == "" {
		key += format.Extension()
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case PFM:
		err = WritePFM(&buf, result)
	default:
		err = WritePNG(&buf, result)
	}
	if err != nil {
		return "", err
	}

	opts := &blob.WriterOptions{ContentType: format.ContentType()}
	if err := s.bucket.WriteAll(ctx, key, buf.Bytes(), opts); err != nil {
		return "", errors.Wrapf(err, "writing %s", key)
	}

	logger.Infof("wrote %s (%d bytes)", key, buf.Len())
	return key, nil
}

// Bucket exposes the underlying bucket
func (s *Sink) Bucket() *blob.Bucket {
	return s.bucket
}

// Close closes the underlying bucket
func (s *Sink) Close() error {
	return s.bucket.Close()
}
