package faqsource

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/advisor-assistant/internal/domain/faq"
	"github.com/yanqian/advisor-assistant/pkg/tabular"
)

// maxObjectBytes caps how much of a corpus object is read.
const maxObjectBytes = 8 << 20

// ObjectOptions locates a corpus file in S3-compatible storage.
type ObjectOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Key       string
}

// ObjectSource reads a CSV or XLSX corpus from an S3-compatible bucket.
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
}

// NewObjectSource constructs the storage-backed source.
func NewObjectSource(opts ObjectOptions) (*ObjectSource, error) {
	if strings.TrimSpace(opts.Bucket) == "" || strings.TrimSpace(opts.Key) == "" {
		return nil, fmt.Errorf("object source requires bucket and key")
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(opts.Endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(opts.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       useSSL,
		Region:       opts.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return &ObjectSource{client: client, bucket: opts.Bucket, key: opts.Key}, nil
}

// Name implements faq.Source.
func (s *ObjectSource) Name() string {
	return fmt.Sprintf("object:%s/%s", s.bucket, s.key)
}

// Load implements faq.Source.
func (s *ObjectSource) Load(ctx context.Context) (faq.Table, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return faq.Table{}, err
	}
	defer obj.Close()
	if _, err := obj.Stat(); err != nil {
		return faq.Table{}, err
	}
	content, err := io.ReadAll(io.LimitReader(obj, maxObjectBytes+1))
	if err != nil {
		return faq.Table{}, fmt.Errorf("read corpus object: %w", err)
	}
	if len(content) > maxObjectBytes {
		return faq.Table{}, fmt.Errorf("corpus object exceeds %d bytes", maxObjectBytes)
	}
	return tabular.Decode(s.key, content)
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

var _ faq.Source = (*ObjectSource)(nil)
