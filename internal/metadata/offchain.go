package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
)

// maxDocumentSize caps the off-chain document read into memory.
const maxDocumentSize = 4 << 20

// ErrDocumentTooLarge is returned for off-chain documents over maxDocumentSize.
var ErrDocumentTooLarge = errors.Newf("document larger than %d bytes", maxDocumentSize)

// DocumentFetcher retrieves the JSON document behind a metadata URI.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, uri string) (json.RawMessage, error)
}

// HTTPFetcher fetches off-chain documents over HTTP(S).
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// FetchDocument GETs uri and returns the body as compact JSON.
func (f *HTTPFetcher) FetchDocument(ctx context.Context, uri string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", uri)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("get %s: HTTP %d", uri, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", uri)
	}
	if len(body) > maxDocumentSize {
		return nil, errors.Wrapf(ErrDocumentTooLarge, "get %s", uri)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return nil, errors.Wrapf(err, "parse %s", uri)
	}
	return json.RawMessage(buf.Bytes()), nil
}
