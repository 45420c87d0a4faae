// Package rates keeps the last good exchange-rate payload from the upstream
// feed and refreshes it in the background.
package rates

import (
	"sync/atomic"
	"time"
)

// FallbackPayload is served until the first successful refresh.
const FallbackPayload = `[{"USD_in":3.2000,"USD_out":3.2500}]`

// Snapshot is one captured upstream payload.
type Snapshot struct {
	Payload    string
	CapturedAt time.Time
}

var fallback = &Snapshot{Payload: FallbackPayload, CapturedAt: time.Unix(0, 0).UTC()}

// Cache holds exactly one Snapshot. Reads never block and never see a
// half-written pair. The zero value serves the fallback.
type Cache struct {
	slot atomic.Pointer[Snapshot]
}

// NewCache returns a cache primed with the fallback payload.
func NewCache() *Cache {
	c := &Cache{}
	c.slot.Store(fallback)
	return c
}

// Read returns the current snapshot.
func (c *Cache) Read() Snapshot {
	if s := c.slot.Load(); s != nil {
		return *s
	}
	return *fallback
}

// Replace swaps in a new payload captured at the given time.
func (c *Cache) Replace(payload string, capturedAt time.Time) {
	c.slot.Store(&Snapshot{Payload: payload, CapturedAt: capturedAt})
}
