package knowledge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultPath is where the knowledge document is looked up, relative to the
// process working directory.
const DefaultPath = "knowledge.json"

const maxDocumentSize = 1 << 20

// Source yields the raw knowledge document.
type Source interface {
	Read(ctx context.Context) ([]byte, error)
	String() string
}

// FileSource reads the document from the local filesystem.
type FileSource struct {
	Path string
}

func (f FileSource) Read(_ context.Context) ([]byte, error) {
	path := strings.TrimSpace(f.Path)
	if path == "" {
		path = DefaultPath
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read file: %w", err)
	}
	return raw, nil
}

func (f FileSource) String() string {
	if strings.TrimSpace(f.Path) == "" {
		return "file:" + DefaultPath
	}
	return "file:" + f.Path
}

// s3API is the minimal S3 interface required by S3Source.
// *s3.Client from aws-sdk-go-v2 satisfies this interface.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the document from an S3 object.
type S3Source struct {
	api    s3API
	bucket string
	key    string
}

func NewS3Source(api s3API, bucket, key string) (*S3Source, error) {
	if api == nil {
		return nil, errors.New("knowledge: s3 api must not be nil")
	}
	bucket = strings.TrimSpace(bucket)
	key = strings.TrimSpace(key)
	if bucket == "" || key == "" {
		return nil, errors.New("knowledge: s3 bucket and key are required")
	}
	return &S3Source{api: api, bucket: bucket, key: key}, nil
}

func (s *S3Source) Read(ctx context.Context) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("knowledge: get object %s: %w", s, err)
	}
	if out == nil || out.Body == nil {
		return nil, fmt.Errorf("knowledge: object %s has no body", s)
	}
	defer func() { _ = out.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("knowledge: read object %s: %w", s, err)
	}
	return raw, nil
}

func (s *S3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}
