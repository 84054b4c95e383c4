package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func sampleJSON(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(sampleRecord())
	require.NoError(t, err)
	return string(raw)
}

type fakeS3 struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestLoad_File(t *testing.T) {
	rec, err := Load(context.Background(), FileSource{Path: writeDoc(t, sampleJSON(t))})
	require.NoError(t, err)
	require.Equal(t, sampleRecord(), rec)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "absent.json")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "read file")
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load(context.Background(), FileSource{Path: writeDoc(t, `{"name":`)})
	require.Error(t, err)
}

func TestLoad_SchemaViolation(t *testing.T) {
	_, err := Load(context.Background(), FileSource{Path: writeDoc(t, `{"name":"x","role":"y"}`)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not match schema")
	require.Contains(t, err.Error(), "services")
}

func TestLoad_NilSource(t *testing.T) {
	_, err := Load(context.Background(), nil)
	require.Error(t, err)
}

func TestLoadFormatted_HappyPath(t *testing.T) {
	text := LoadFormatted(context.Background(), FileSource{Path: writeDoc(t, sampleJSON(t))}, zaptest.NewLogger(t))
	require.Equal(t, Format(sampleRecord()), text)
}

func TestLoadFormatted_DegradesToEmpty(t *testing.T) {
	cases := map[string]Source{
		"missing file": FileSource{Path: filepath.Join(t.TempDir(), "absent.json")},
		"malformed":    FileSource{Path: writeDoc(t, `not-json`)},
		"wrong types":  FileSource{Path: writeDoc(t, `{"name":1,"role":"r","about":"a","services":[],"process":[],"contacts":{"email":"e","telegram":"t"},"faq":[]}`)},
		"nil source":   nil,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() {
				require.Empty(t, LoadFormatted(context.Background(), src, zaptest.NewLogger(t)))
			})
		})
	}
}

func TestFileSource_DefaultPath(t *testing.T) {
	require.Equal(t, "file:knowledge.json", FileSource{}.String())
}

func TestS3Source_Read(t *testing.T) {
	api := &fakeS3{body: sampleJSON(t)}
	src, err := NewS3Source(api, "bucket", "kb/knowledge.json")
	require.NoError(t, err)

	rec, err := Load(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, sampleRecord(), rec)
	require.Equal(t, "bucket", *api.input.Bucket)
	require.Equal(t, "kb/knowledge.json", *api.input.Key)
	require.Equal(t, "s3://bucket/kb/knowledge.json", src.String())
}

func TestS3Source_Error(t *testing.T) {
	src, err := NewS3Source(&fakeS3{err: errors.New("NoSuchKey")}, "bucket", "key")
	require.NoError(t, err)
	require.Empty(t, LoadFormatted(context.Background(), src, zaptest.NewLogger(t)))
}

func TestNewS3Source_Validates(t *testing.T) {
	_, err := NewS3Source(nil, "bucket", "key")
	require.Error(t, err)
	_, err = NewS3Source(&fakeS3{}, " ", "key")
	require.Error(t, err)
	_, err = NewS3Source(&fakeS3{}, "bucket", "")
	require.Error(t, err)
}
