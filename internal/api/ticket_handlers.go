package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/laneticket/atari-server/internal/domain"
	"github.com/laneticket/atari-server/internal/pattern"
	"github.com/laneticket/atari-server/internal/service"
)

func (s *Server) registerTicketRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "importTickets",
		Method:        http.MethodPost,
		Path:          "/api/v1/tickets/import",
		Summary:       "Import tickets",
		Description:   "Imports a pasted JSON array of tickets, replacing or appending to the stored list",
		Tags:          []string{tagTickets},
		DefaultStatus: http.StatusCreated,
		MaxBodyBytes:  MaxImportSize,
	}, s.handleImportTickets)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTickets",
		Method:      http.MethodGet,
		Path:        "/api/v1/tickets",
		Summary:     "List tickets",
		Description: "Returns stored tickets in import order with their highlight color",
		Tags:        []string{tagTickets},
	}, s.handleListTickets)

	huma.Register(s.api, huma.Operation{
		OperationID: "groupTickets",
		Method:      http.MethodGet,
		Path:        "/api/v1/tickets/groups",
		Summary:     "Group tickets",
		Description: "Collapses stored tickets by lane layout with a count per layout",
		Tags:        []string{tagTickets},
	}, s.handleGroupTickets)

	huma.Register(s.api, huma.Operation{
		OperationID: "filterTickets",
		Method:      http.MethodPost,
		Path:        "/api/v1/tickets/filter",
		Summary:     "Filter tickets",
		Description: "Returns stored tickets matching a search pattern, optionally only those hitting a chart's rules",
		Tags:        []string{tagTickets},
	}, s.handleFilterTickets)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearTickets",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tickets",
		Summary:     "Clear tickets",
		Description: "Deletes every stored ticket",
		Tags:        []string{tagTickets},
	}, s.handleClearTickets)
}

// ImportTicketsInput carries the raw pasted payload so malformed JSON can be classified.
type ImportTicketsInput struct {
	Mode    string `query:"mode" doc:"replace (default) or append"`
	RawBody []byte
}

// ImportTicketsOutput wraps the import batch for Huma.
type ImportTicketsOutput struct {
	Body *domain.ImportBatch
}

func (s *Server) handleImportTickets(ctx context.Context, input *ImportTicketsInput) (*ImportTicketsOutput, error) {
	batch, err := s.services.Tickets.Import(ctx, input.RawBody, domain.ImportMode(input.Mode))
	if err != nil {
		return nil, err
	}
	return &ImportTicketsOutput{Body: batch}, nil
}

// SideInput selects the play side colors are computed for.
type SideInput struct {
	Side string `query:"side" default:"1P" doc:"Play side, 1P or 2P"`
}

// ListTicketsInput contains parameters for listing tickets.
type ListTicketsInput struct {
	SideInput
	Limit  int `query:"limit" default:"100" doc:"Page size (max 1000)"`
	Offset int `query:"offset" doc:"Tickets to skip"`
}

// ListTicketsOutput wraps a ticket page for Huma.
type ListTicketsOutput struct {
	Body *service.TicketPage
}

func (s *Server) handleListTickets(ctx context.Context, input *ListTicketsInput) (*ListTicketsOutput, error) {
	page, err := s.services.Tickets.List(ctx, domain.PlaySide(input.Side), input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return &ListTicketsOutput{Body: page}, nil
}

// TicketGroupsResponse lists ticket layouts with their counts.
type TicketGroupsResponse struct {
	Groups []service.GroupView `json:"groups"`
	Total  int                 `json:"total" doc:"Number of tickets across all groups"`
}

// TicketGroupsOutput wraps the groups response for Huma.
type TicketGroupsOutput struct {
	Body TicketGroupsResponse
}

func (s *Server) handleGroupTickets(ctx context.Context, input *SideInput) (*TicketGroupsOutput, error) {
	groups, err := s.services.Tickets.Groups(ctx, domain.PlaySide(input.Side))
	if err != nil {
		return nil, err
	}
	total := 0
	for _, g := range groups {
		total += g.Count
	}
	return &TicketGroupsOutput{Body: TicketGroupsResponse{Groups: groups, Total: total}}, nil
}

// FilterTicketsRequest is the request body for filtering tickets.
type FilterTicketsRequest struct {
	Pattern pattern.Form     `json:"pattern,omitempty" doc:"Search pattern; short fields are padded with wildcards"`
	Side    domain.PlaySide  `json:"side,omitempty" doc:"Play side, 1P or 2P (default 1P)"`
	Mode    string           `json:"mode,omitempty" doc:"all (default) or recommend; recommend without a chart behaves like all"`
	Chart   *domain.ChartKey `json:"chart,omitempty" doc:"Chart whose rules are returned; recommend mode keeps only tickets hitting them"`
}

// FilterTicketsInput wraps the filter request for Huma.
type FilterTicketsInput struct {
	Body FilterTicketsRequest
}

// FilterTicketsOutput wraps the filter result for Huma.
type FilterTicketsOutput struct {
	Body *service.FilterResult
}

func (s *Server) handleFilterTickets(ctx context.Context, input *FilterTicketsInput) (*FilterTicketsOutput, error) {
	res, err := s.services.Tickets.Filter(ctx, service.FilterRequest{
		Pattern: input.Body.Pattern,
		Side:    sideOrDefault(input.Body.Side),
		Mode:    input.Body.Mode,
		Chart:   input.Body.Chart,
	})
	if err != nil {
		return nil, err
	}
	return &FilterTicketsOutput{Body: res}, nil
}

// ClearTicketsResponse reports how many tickets were deleted.
type ClearTicketsResponse struct {
	Deleted int `json:"deleted"`
}

// ClearTicketsOutput wraps the clear response for Huma.
type ClearTicketsOutput struct {
	Body ClearTicketsResponse
}

func (s *Server) handleClearTickets(ctx context.Context, _ *struct{}) (*ClearTicketsOutput, error) {
	n, err := s.services.Tickets.Clear(ctx)
	if err != nil {
		return nil, err
	}
	return &ClearTicketsOutput{Body: ClearTicketsResponse{Deleted: n}}, nil
}
