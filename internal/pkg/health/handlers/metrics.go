package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Vodeneev/betpreview/internal/pkg/performance"
)

// HandleStats handles /stats endpoint: the run summary of tracker
func HandleStats(tracker *performance.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metrics := tracker.GetMetrics()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(metrics); err != nil {
			http.Error(w, fmt.Sprintf("failed to encode metrics: %v", err), http.StatusInternalServerError)
			return
		}
	}
}
