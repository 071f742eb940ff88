package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/laneticket/atari-server/internal/store"
)

// Component statuses.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{tagHealth},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"rules":   s.checkRules(),
		"tickets": s.checkTicketStore(ctx),
		"memos":   s.checkMemoStore(ctx),
		"search":  s.checkSearchIndex(),
		"songs":   s.checkSongs(),
	}

	overall := statusHealthy
	for _, c := range components {
		switch c.Status {
		case statusUnhealthy:
			overall = statusUnhealthy
		case statusDegraded:
			if overall == statusHealthy {
				overall = statusDegraded
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkRules reports the active rule set. An empty set still serves requests.
func (s *Server) checkRules() ComponentHealth {
	if s.services == nil || s.services.Atari == nil {
		return ComponentHealth{Status: statusDegraded, Message: "rule service not configured"}
	}

	stats := s.services.Atari.Stats()
	if stats.Rules == 0 {
		return ComponentHealth{Status: statusDegraded, Message: "no rules loaded"}
	}
	return ComponentHealth{
		Status:  statusHealthy,
		Message: fmt.Sprintf("%d rules, version %.12s", stats.Rules, stats.Version),
	}
}

// checkSongs reports the loaded song catalog. Matching works without one.
func (s *Server) checkSongs() ComponentHealth {
	if s.services == nil || s.services.Songs == nil {
		return ComponentHealth{Status: statusDegraded, Message: "song service not configured"}
	}

	stats := s.services.Songs.Stats()
	if stats.Charts == 0 {
		return ComponentHealth{Status: statusDegraded, Message: "no songs loaded"}
	}
	return ComponentHealth{
		Status:  statusHealthy,
		Message: fmt.Sprintf("%d charts of %d songs, version %.12s", stats.Charts, stats.Songs, stats.Version),
	}
}

// checkTicketStore verifies SQLite is readable.
func (s *Server) checkTicketStore(ctx context.Context) ComponentHealth {
	if s.services == nil || s.services.Tickets == nil {
		return ComponentHealth{Status: statusDegraded, Message: "ticket store not configured"}
	}

	start := time.Now()
	_, err := s.services.Tickets.Count(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "ticket database read failed",
		}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency.String()}
}

// checkMemoStore verifies BadgerDB is readable.
func (s *Server) checkMemoStore(ctx context.Context) ComponentHealth {
	if s.services == nil || s.services.Memos == nil {
		return ComponentHealth{Status: statusDegraded, Message: "memo store not configured"}
	}

	start := time.Now()
	_, err := s.services.Memos.List(ctx, store.PaginationParams{Limit: 1})
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "memo database read failed",
		}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency.String()}
}

// checkSearchIndex verifies the Bleve index is reachable and caught up with the rules.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services == nil || s.services.RuleSearch == nil {
		return ComponentHealth{Status: statusDegraded, Message: "search service not configured"}
	}

	start := time.Now()
	version, err := s.services.RuleSearch.IndexedVersion()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}

	// Reindexing runs after every rule swap; a lagging index is degraded, not down.
	if s.services.Atari != nil && version != s.services.Atari.Stats().Version {
		return ComponentHealth{
			Status:  statusDegraded,
			Latency: latency.String(),
			Message: "search index behind active rules",
		}
	}

	return ComponentHealth{Status: statusHealthy, Latency: latency.String()}
}
