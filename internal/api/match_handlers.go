package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/service"
)

func (s *Server) registerMatchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "matchTicket",
		Method:      http.MethodPost,
		Path:        "/api/v1/match",
		Summary:     "Match a ticket",
		Description: "Returns the rules a ticket hits, highest priority first, and its highlight color",
		Tags:        []string{tagMatch},
	}, s.handleMatchTicket)

	huma.Register(s.api, huma.Operation{
		OperationID: "matchTickets",
		Method:      http.MethodPost,
		Path:        "/api/v1/match/batch",
		Summary:     "Match many tickets",
		Description: "Matches every ticket against the same rule set; results keep the request order",
		Tags:        []string{tagMatch},
	}, s.handleMatchTickets)
}

// sideOrDefault treats a missing side as 1P.
func sideOrDefault(side domain.PlaySide) domain.PlaySide {
	if side == "" {
		return domain.Side1P
	}
	return side
}

// MatchRequest is the request body for matching one ticket.
type MatchRequest struct {
	Ticket domain.Ticket   `json:"ticket"`
	Side   domain.PlaySide `json:"side,omitempty" doc:"Play side, 1P or 2P (default 1P)"`
}

// MatchInput wraps the match request for Huma.
type MatchInput struct {
	Body MatchRequest
}

// MatchOutput wraps the match result for Huma.
type MatchOutput struct {
	Body *service.MatchResult
}

func (s *Server) handleMatchTicket(_ context.Context, input *MatchInput) (*MatchOutput, error) {
	res, err := s.services.Atari.RulesForTicket(input.Body.Ticket, sideOrDefault(input.Body.Side))
	if err != nil {
		return nil, err
	}
	return &MatchOutput{Body: res}, nil
}

// MatchBatchRequest is the request body for matching many tickets.
type MatchBatchRequest struct {
	Tickets []domain.Ticket `json:"tickets" maxItems:"5040"`
	Side    domain.PlaySide `json:"side,omitempty" doc:"Play side, 1P or 2P (default 1P)"`
}

// MatchBatchInput wraps the batch request for Huma.
type MatchBatchInput struct {
	Body MatchBatchRequest
}

// MatchBatchOutput wraps the batch evaluation for Huma.
// Every result was computed against the rule set named by Body.Version.
type MatchBatchOutput struct {
	Body *service.Evaluation
}

func (s *Server) handleMatchTickets(ctx context.Context, input *MatchBatchInput) (*MatchBatchOutput, error) {
	res, err := s.services.Atari.Evaluate(ctx, input.Body.Tickets, sideOrDefault(input.Body.Side))
	if err != nil {
		return nil, err
	}
	return &MatchBatchOutput{Body: res}, nil
}
