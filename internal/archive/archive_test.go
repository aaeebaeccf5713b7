package archive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanKey(t *testing.T) {
	assert.Equal(t, "scans/u1/s1.png", ScanKey("u1", "s1", "Report.PNG"))
	assert.Equal(t, "scans/u1/s1.jpg", ScanKey("u1", "s1", "upload"))
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	path, err := m.Put(ctx, "scans/u/1.jpg", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "scans/u/1.jpg", path)

	data, err := m.Get(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)

	require.NoError(t, m.Delete(ctx, path))
	_, err = m.Get(ctx, path)
	assert.ErrorIs(t, err, ErrNotFound)
}

// fakeS3 is a minimal path-style S3 endpoint.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	if len(parts) < 2 || parts[1] == "" {
		// Bucket-level requests: HEAD (exists) and PUT (create).
		w.WriteHeader(http.StatusOK)
		return
	}
	key := parts[1]

	switch r.Method {
	case http.MethodPut:
		body, err := readS3Body(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
			return
		}
		w.Header().Set("ETag", `"etag"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", f.types[key])
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			w.Write(data)
		}
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// readS3Body returns the object payload, unwrapping aws-chunked framing
// used by streaming signature uploads.
func readS3Body(r *http.Request) ([]byte, error) {
	if !strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
		return io.ReadAll(r.Body)
	}
	return decodeAWSChunked(r.Body)
}

func decodeAWSChunked(body io.Reader) ([]byte, error) {
	br := bufio.NewReader(body)
	var out []byte
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		sizeHex, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("parse chunk size %q: %w", sizeHex, err)
		}
		if size == 0 {
			return out, nil
		}
		chunk := make([]byte, size)
		if _, err := io.ReadFull(br, chunk); err != nil {
			return nil, fmt.Errorf("read chunk: %w", err)
		}
		out = append(out, chunk...)
		if _, err := br.Discard(2); err != nil {
			return nil, fmt.Errorf("read chunk trailer: %w", err)
		}
	}
}

func TestDecodeAWSChunked(t *testing.T) {
	framed := "9;chunk-signature=abc\r\npng-bytes\r\n0;chunk-signature=def\r\n\r\n"
	data, err := decodeAWSChunked(strings.NewReader(framed))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	unsigned := "4\r\nabcd\r\n0\r\nx-amz-checksum-crc32:AAAAAA==\r\n\r\n"
	data, err = decodeAWSChunked(strings.NewReader(unsigned))
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), data)

	_, err = decodeAWSChunked(strings.NewReader("zz;chunk-signature=abc\r\n"))
	assert.Error(t, err)
}

func TestMinIO_PutGetDelete(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	ctx := context.Background()
	m, err := NewMinIO(ctx, MinIOConfig{
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		Region:    "us-east-1",
		Bucket:    "reports",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)

	path, err := m.Put(ctx, "scans/u/1.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "scans/u/1.png", path)

	fake.mu.Lock()
	assert.Equal(t, []byte("png-bytes"), fake.objects["scans/u/1.png"])
	assert.Equal(t, "image/png", fake.types["scans/u/1.png"])
	fake.mu.Unlock()

	data, err := m.Get(ctx, "scans/u/1.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	require.NoError(t, m.Delete(ctx, "scans/u/1.png"))
	fake.mu.Lock()
	assert.Empty(t, fake.objects)
	fake.mu.Unlock()
}
