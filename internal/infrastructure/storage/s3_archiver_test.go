package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 acepta PutObject en estilo path y guarda el cuerpo por llave.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(strings.NewReader("")), Header: http.Header{}, Request: req}, nil
	}
	body, _ := io.ReadAll(req.Body)
	key := strings.TrimPrefix(req.URL.Path, "/")
	f.objects[key] = body
	f.types[key] = req.Header.Get("Content-Type")
	h := http.Header{}
	h.Set("ETag", `"etag"`)
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: h, Request: req}, nil
}

func TestS3Archiver_Archive_PutsPDFUnderPrefix(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	a, err := NewS3Archiver(context.Background(), S3Config{
		Bucket:          "slips",
		Region:          "us-east-1",
		Endpoint:        "https://mock.s3.local",
		PathStyle:       true,
		Prefix:          "ledger",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)

	pdf := []byte("%PDF-1.4 test")
	require.NoError(t, a.Archive(context.Background(), "adjustments/ADJ-20260101-0001.pdf", pdf))

	got, ok := fake.objects["slips/ledger/adjustments/ADJ-20260101-0001.pdf"]
	require.True(t, ok, "objeto no encontrado: %v", fake.objects)
	assert.Contains(t, string(got), string(pdf))
	assert.Equal(t, "application/pdf", fake.types["slips/ledger/adjustments/ADJ-20260101-0001.pdf"])
}

func TestNewS3Archiver_RequiresBucket(t *testing.T) {
	_, err := NewS3Archiver(context.Background(), S3Config{})
	require.Error(t, err)
}
