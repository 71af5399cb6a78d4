// internal/tile/fetcher.go - Tile fetching implementation
package tile

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tileblend/internal"
	"tileblend/internal/config"
)

// Fetcher defines the interface for retrieving raw tile payloads
type Fetcher interface {
	Fetch(addr Address) ([]byte, error)
}

// HTTPFetcher implements the Fetcher interface using HTTP requests.
// Failed fetches are never retried here; retry policy belongs to the
// caller.
type HTTPFetcher struct {
	client *http.Client
	config *config.ServerConfig
}

// NewHTTPFetcher creates a new HTTP-based tile fetcher
func NewHTTPFetcher(cfg *config.ServerConfig) *HTTPFetcher {
	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		DisableKeepAlives:   cfg.DisableKeepAlive,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}

	return &HTTPFetcher{
		client: client,
		config: cfg,
	}
}

// Fetch retrieves a single tile's raw payload from the configured server
func (f *HTTPFetcher) Fetch(addr Address) ([]byte, error) {
	req, err := f.buildHTTPRequest(addr)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeNetwork, "failed to build HTTP request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeNetwork, fmt.Sprintf("request for tile %s failed", addr), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, internal.NewError(internal.ErrorCodeNetwork,
			fmt.Sprintf("tile %s: HTTP %d %s", addr, resp.StatusCode, resp.Status), nil)
	}

	// Handle compressed responses
	var reader io.Reader = resp.Body
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, internal.NewError(internal.ErrorCodeNetwork, "failed to create gzip reader", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeNetwork, "failed to read response body", err)
	}

	return data, nil
}

// buildHTTPRequest constructs an HTTP request for a tile address
func (f *HTTPFetcher) buildHTTPRequest(addr Address) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, addr.FetchLocator(f.config.URLTemplate), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Accept", "application/x-protobuf")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("User-Agent", f.config.UserAgent)

	for key, value := range f.config.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
