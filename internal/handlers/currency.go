package handlers

import (
	"io"
	"log"
	"net/http"
	"time"
)

// CapturedAtHeader reports when the served rates were fetched.
const CapturedAtHeader = "X-Rates-Captured-At"

// CurrencyRates serves the cached exchange-rate payload as-is. It never
// contacts the upstream provider.
func (h *Handlers) CurrencyRates(w http.ResponseWriter, r *http.Request) {
	snap := h.rates.Read()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(CapturedAtHeader, snap.CapturedAt.UTC().Format(time.RFC3339))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, snap.Payload); err != nil {
		log.Printf("Write currency response error: %v", err)
	}
}
