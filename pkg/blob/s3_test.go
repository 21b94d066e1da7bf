package blob

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakeS3 is an in-memory http.RoundTripper answering the path-style bucket
// and object calls Store makes.
type fakeS3 struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{buckets: make(map[string]bool), objects: make(map[string][]byte)}
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	bucket := parts[0]
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if key == "" {
		switch req.Method {
		case http.MethodHead:
			if f.buckets[bucket] {
				return respond(http.StatusOK, nil), nil
			}
			return respond(http.StatusNotFound, nil), nil
		case http.MethodPut:
			f.buckets[bucket] = true
			return respond(http.StatusOK, nil), nil
		}
		return respond(http.StatusNotImplemented, nil), nil
	}

	switch req.Method {
	case http.MethodPut:
		body, err := readBody(req)
		if err != nil {
			return nil, err
		}
		f.objects[bucket+"/"+key] = body
		resp := respond(http.StatusOK, nil)
		resp.Header.Set("ETag", `"etag"`)
		return resp, nil
	case http.MethodGet:
		body, ok := f.objects[bucket+"/"+key]
		if !ok {
			resp := respond(http.StatusNotFound, []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
			resp.Header.Set("Content-Type", "application/xml")
			return resp, nil
		}
		resp := respond(http.StatusOK, body)
		resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
		return resp, nil
	}
	return respond(http.StatusNotImplemented, nil), nil
}

// readBody strips aws-chunked framing when the SDK uses it.
func readBody(req *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(req.Header.Get("Content-Encoding"), "aws-chunked") {
		return raw, nil
	}
	r := bufio.NewReader(bytes.NewReader(raw))
	header, err := r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	size, err := strconv.ParseInt(strings.TrimSpace(strings.SplitN(header, ";", 2)[0]), 16, 64)
	if err != nil {
		return nil, fmt.Errorf("chunk header %q: %w", header, err)
	}
	out := make([]byte, size)
	_, err = io.ReadFull(r, out)
	return out, err
}

func respond(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func newTestStore(t *testing.T, fake *fakeS3) *Store {
	t.Helper()
	s, err := New(context.Background(), Config{
		Bucket:          "snapshots",
		Endpoint:        "http://minio.local:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		HTTPClient:      &http.Client{Transport: fake},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for missing bucket")
	}
}

func TestStore_EnsureBucket(t *testing.T) {
	fake := newFakeS3()
	s := newTestStore(t, fake)
	ctx := context.Background()

	if err := s.Ping(ctx); err == nil {
		t.Fatal("expected Ping to fail before the bucket exists")
	}
	if err := s.EnsureBucket(ctx); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}
	if !fake.buckets["snapshots"] {
		t.Fatal("expected bucket to be created")
	}
	if err := s.EnsureBucket(ctx); err != nil {
		t.Fatalf("EnsureBucket on existing bucket: %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestStore_PutGet(t *testing.T) {
	fake := newFakeS3()
	s := newTestStore(t, fake)
	ctx := context.Background()

	payload := []byte(`{"total":1}`)
	if err := s.Put(ctx, "snapshots/1.json", payload, "application/json"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "snapshots/1.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t, newFakeS3())
	_, err := s.Get(context.Background(), "nope.json")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
