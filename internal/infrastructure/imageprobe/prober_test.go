package imageprobe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProbe_LoadableImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xFF, 0xD8})
	}))
	defer server.Close()

	prober := NewHTTPProber()

	assert.True(t, prober.Probe(context.Background(), server.URL+"/dish.jpg"))
}

func TestProbe_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	prober := NewHTTPProber()

	assert.False(t, prober.Probe(context.Background(), server.URL+"/missing.jpg"))
}

func TestProbe_HeadRejectedFallsBackToGet(t *testing.T) {
	var sawGet bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet = true
		assert.Equal(t, "bytes=0-0", r.Header.Get("Range"))
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte{0xFF})
	}))
	defer server.Close()

	prober := NewHTTPProber()

	assert.True(t, prober.Probe(context.Background(), server.URL+"/dish.jpg"))
	assert.True(t, sawGet)
}

func TestProbe_EmptyBodyOnFallbackIsInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	prober := NewHTTPProber()

	assert.False(t, prober.Probe(context.Background(), server.URL+"/empty.jpg"))
}

func TestProbe_TimeoutIsFalseNotError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	prober := NewHTTPProber()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	ok := prober.Probe(ctx, server.URL+"/slow.jpg")

	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestProbe_EmptyAndUnreachableURLs(t *testing.T) {
	prober := NewHTTPProber()

	assert.False(t, prober.Probe(context.Background(), ""))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.False(t, prober.Probe(ctx, "http://127.0.0.1:1/unreachable.jpg"))
}
