// Package imageprobe implements the image-loadability probe: a bounded check
// of whether an image URL actually serves bytes. A probe never returns an
// error; any failure mode folds into false.
package imageprobe

import (
	"context"
	"io"
	"net/http"
)

// HTTPProber probes image URLs over HTTP. It tries a HEAD request first and
// falls back to a one-byte ranged GET for servers that reject HEAD.
type HTTPProber struct {
	httpClient *http.Client
}

// NewHTTPProber creates a prober. The per-probe deadline comes from the
// caller's context, so the underlying client carries no timeout of its own.
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{
		httpClient: &http.Client{},
	}
}

// Probe reports whether the image at imageURL loads within the context
// deadline. Timeouts, transport errors, and non-success statuses are all
// simply false.
func (p *HTTPProber) Probe(ctx context.Context, imageURL string) bool {
	if imageURL == "" {
		return false
	}

	if ok, decided := p.tryHead(ctx, imageURL); decided {
		return ok
	}
	return p.tryRangedGet(ctx, imageURL)
}

// tryHead issues the HEAD probe. decided is false when the server rejects
// HEAD outright and a GET fallback is worth attempting.
func (p *HTTPProber) tryHead(ctx context.Context, imageURL string) (ok, decided bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		return false, true
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, true
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, true
	case resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented:
		return false, false
	default:
		return false, true
	}
}

// tryRangedGet fetches the first byte only, keeping fallback probes cheap.
func (p *HTTPProber) tryRangedGet(ctx context.Context, imageURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Range", "bytes=0-0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	// Confirm at least one byte is actually readable.
	buf := make([]byte, 1)
	n, err := resp.Body.Read(buf)
	if n == 0 && err != nil && err != io.EOF {
		return false
	}
	return n > 0
}
