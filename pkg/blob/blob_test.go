package blob

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder answers PutObject and keeps the last request.
type recorder struct {
	method, path, contentType string
	body                      []byte
}

func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	r.method = req.Method
	r.path = req.URL.Path
	r.contentType = req.Header.Get("Content-Type")
	if req.Body != nil {
		r.body, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{"ETag": {`"etag"`}},
	}, nil
}

func TestParse(t *testing.T) {
	got, err := Parse("s3://docs/out/requirements.md")
	require.NoError(t, err)
	assert.True(t, got.IsS3())
	assert.Equal(t, "docs", got.Bucket)
	assert.Equal(t, "out/requirements.md", got.Key)
	assert.Equal(t, "s3://docs/out/requirements.md", got.String())

	got, err = Parse("requirements.md")
	require.NoError(t, err)
	assert.False(t, got.IsS3())
	assert.Equal(t, "requirements.md", got.String())

	for _, bad := range []string{"", "s3://", "s3://bucket", "s3://bucket/", "s3:///key"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestPutLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	w := &Writer{}
	require.NoError(t, w.Put(context.Background(), Target{Path: path}, "text/markdown", []byte("# Requirements\n")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Requirements\n", string(data))
}

func TestPutS3(t *testing.T) {
	rt := &recorder{}
	w := &Writer{S3: S3Config{
		Region:          "us-east-1",
		Endpoint:        "https://mock.s3.local",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: rt},
	}}
	target, err := Parse("s3://docs/requirements.html")
	require.NoError(t, err)

	require.NoError(t, w.Put(context.Background(), target, "text/html; charset=utf-8", []byte("<h1>Requirements</h1>")))
	assert.Equal(t, http.MethodPut, rt.method)
	assert.Equal(t, "/docs/requirements.html", rt.path)
	assert.Equal(t, "text/html; charset=utf-8", rt.contentType)
	// The SDK may frame the payload with a trailing checksum.
	assert.True(t, strings.Contains(string(rt.body), "<h1>Requirements</h1>"), string(rt.body))
}
