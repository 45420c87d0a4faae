package rates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultURL is the Belarusbank exchange-rate feed for Minsk.
	DefaultURL = "https://belarusbank.by/api/kursExchange?city=%D0%9C%D0%B8%D0%BD%D1%81%D0%BA"
	// DefaultConnectTimeout bounds dialing and the TLS handshake.
	DefaultConnectTimeout = 3 * time.Second
	// DefaultReadTimeout bounds waiting for and reading the response.
	DefaultReadTimeout = 4 * time.Second

	maxPayloadBytes = 1 << 20
)

var (
	// ErrUpstreamUnavailable covers network failures and timeouts.
	ErrUpstreamUnavailable = errors.New("rates: upstream unavailable")
	// ErrUpstreamStatus is returned for non-2xx responses.
	ErrUpstreamStatus = errors.New("rates: unexpected upstream status")
)

// Fetcher performs single, non-retried GETs against the upstream feed.
type Fetcher struct {
	client      *http.Client
	url         string
	readTimeout time.Duration
}

// NewFetcher creates a fetcher for url. Certificates are validated with the
// system roots.
func NewFetcher(url string, connectTimeout, readTimeout time.Duration) *Fetcher {
	dialer := &net.Dialer{Timeout: connectTimeout}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConns:          2,
		IdleConnTimeout:       90 * time.Second,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   connectTimeout + readTimeout,
		},
		url:         url,
		readTimeout: readTimeout,
	}
}

// Fetch returns the raw response body.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	// The body read gets its own budget once headers have arrived.
	timer := time.AfterFunc(f.readTimeout, func() { resp.Body.Close() })
	defer timer.Stop()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstreamUnavailable, err)
	}
	return body, nil
}
