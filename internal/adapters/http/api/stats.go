package api

import (
	"maps"
	"net/http"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the service statistics, extended with HTTP-layer
// state the service cannot see.
type StatsHandler struct {
	statsProvider StatsProvider
	limiter       *RateLimiter
}

// NewStatsHandler creates a stats handler. limiter may be nil when rate
// limiting is disabled.
func NewStatsHandler(statsProvider StatsProvider, limiter *RateLimiter) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, limiter: limiter}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	stats := make(map[string]interface{})
	if h.statsProvider != nil {
		maps.Copy(stats, h.statsProvider.GetStats())
	}

	stats["rateLimitEnabled"] = h.limiter != nil
	if h.limiter != nil {
		stats["rateLimitedClients"] = h.limiter.Len()
	}
	writeJSON(w, http.StatusOK, stats)
}
