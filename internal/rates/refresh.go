package rates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	// ErrEmptyPayload is returned for blank bodies and empty arrays.
	ErrEmptyPayload = errors.New("rates: empty payload")
	// ErrMalformedPayload is returned when the body is not a JSON array of objects.
	ErrMalformedPayload = errors.New("rates: malformed payload")
)

// Refresher pulls the upstream feed into a Cache.
type Refresher struct {
	cache   *Cache
	fetcher *Fetcher
	metrics *Metrics
	now     func() time.Time
}

// NewRefresher wires a fetcher to a cache. metrics may be nil.
func NewRefresher(cache *Cache, fetcher *Fetcher, metrics *Metrics) *Refresher {
	return &Refresher{cache: cache, fetcher: fetcher, metrics: metrics, now: time.Now}
}

// Refresh fetches and validates one payload. On any failure the cached
// snapshot is left as it was and the error is returned for logging.
func (r *Refresher) Refresh(ctx context.Context) error {
	body, err := r.fetcher.Fetch(ctx)
	if err == nil {
		body, err = validatePayload(body)
	}
	if err != nil {
		r.metrics.observeFailure(err)
		log.Printf("WARN: failed to refresh currency rates: %v", err)
		return err
	}

	capturedAt := r.now()
	r.cache.Replace(string(body), capturedAt)
	r.metrics.observeSuccess(capturedAt)
	log.Printf("Currency rates updated successfully at %s", capturedAt.Format(time.RFC3339))
	return nil
}

func validatePayload(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrEmptyPayload
	}

	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyPayload
	}
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedPayload, i)
		}
	}
	return trimmed, nil
}
