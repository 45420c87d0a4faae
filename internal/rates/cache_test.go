package rates

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_StartsWithFallback(t *testing.T) {
	snap := NewCache().Read()

	assert.Equal(t, FallbackPayload, snap.Payload)
	assert.Equal(t, time.Unix(0, 0).UTC(), snap.CapturedAt)
	assert.True(t, json.Valid([]byte(snap.Payload)), "fallback must be valid JSON")
}

func TestCache_ZeroValueServesFallback(t *testing.T) {
	var c Cache
	assert.Equal(t, FallbackPayload, c.Read().Payload)
}

func TestCache_Replace(t *testing.T) {
	c := NewCache()
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	c.Replace(`[{"USD_in":3.10,"USD_out":3.15}]`, at)

	snap := c.Read()
	assert.Equal(t, `[{"USD_in":3.10,"USD_out":3.15}]`, snap.Payload)
	assert.Equal(t, at, snap.CapturedAt)
}

func TestCache_ReadersNeverSeeTornPairs(t *testing.T) {
	c := NewCache()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 2000; i++ {
			c.Replace(fmt.Sprintf(`[{"seq":%d}]`, i), base.Add(time.Duration(i)*time.Second))
		}
		close(stop)
	}()

	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := c.Read()
				if snap.Payload == FallbackPayload {
					continue
				}
				var rows []struct {
					Seq int `json:"seq"`
				}
				if err := json.Unmarshal([]byte(snap.Payload), &rows); err != nil {
					errs <- err
					return
				}
				want := base.Add(time.Duration(rows[0].Seq) * time.Second)
				if !snap.CapturedAt.Equal(want) {
					errs <- fmt.Errorf("payload seq %d paired with %s", rows[0].Seq, snap.CapturedAt)
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
