package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/laneticket/atari-server/internal/atari"
	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/normalize"
	"github.com/laneticket/atari-server/internal/pattern"
	"github.com/laneticket/atari-server/internal/validation"
)

// TicketStore is the persistence the ticket service needs.
type TicketStore interface {
	ImportTickets(ctx context.Context, mode domain.ImportMode, tickets []domain.Ticket) (domain.ImportBatch, error)
	ListTickets(ctx context.Context, limit, offset int) ([]domain.StoredTicket, error)
	ListAllTickets(ctx context.Context) ([]domain.StoredTicket, error)
	CountTickets(ctx context.Context) (int, error)
	DeleteAllTickets(ctx context.Context) (int, error)
}

// ImportErrorKind classifies why an import payload was rejected.
type ImportErrorKind string

// Import error kinds.
const (
	ImportEmptyInput  ImportErrorKind = "empty_input"
	ImportInvalidJSON ImportErrorKind = "invalid_json"
	ImportNotArray    ImportErrorKind = "not_array"
)

// Filter modes.
const (
	FilterModeAll = "all"
	// FilterModeRecommend also requires a hit on the request's chart.
	// Without a chart it behaves like FilterModeAll.
	FilterModeRecommend = "recommend"
)

// Ticket list paging.
const (
	DefaultTicketLimit = 100
	MaxTicketLimit     = 1000
)

// TicketView is a stored ticket with its highlight tier for the requested side.
type TicketView struct {
	domain.StoredTicket
	Color domain.HighlightColor `json:"color"`
}

// TicketPage is one page of the ticket list.
type TicketPage struct {
	Items  []TicketView `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// GroupView is a lane layout shared by Count tickets.
type GroupView struct {
	atari.LaneGroup
	Color domain.HighlightColor `json:"color"`
}

// FilterRequest selects tickets by pattern and, in recommend mode, by chart.
type FilterRequest struct {
	Pattern pattern.Form
	Side    domain.PlaySide
	Mode    string
	Chart   *domain.ChartKey
}

// FilterResult holds the matching tickets and, when a chart was given, its rules.
type FilterResult struct {
	Pattern    domain.SearchPattern `json:"pattern"`
	Tickets    []TicketView         `json:"tickets"`
	ChartRules []domain.AtariRule   `json:"chartRules,omitempty"`
}

// TicketService manages the player's ticket list.
type TicketService struct {
	store     TicketStore
	atari     *AtariService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTicketService creates a new ticket service.
func NewTicketService(store TicketStore, atari *AtariService, validator *validation.Validator, logger *slog.Logger) *TicketService {
	return &TicketService{
		store:     store,
		atari:     atari,
		validator: validator,
		logger:    logger,
	}
}

// Import parses pasted ticket JSON and stores it. The payload must be a JSON array of
// tickets; every ticket is normalized and validated before anything is written.
func (s *TicketService) Import(ctx context.Context, raw []byte, mode domain.ImportMode) (*domain.ImportBatch, error) {
	if mode == "" {
		mode = domain.ImportReplace
	}
	if mode != domain.ImportReplace && mode != domain.ImportAppend {
		return nil, domainerrors.ValidationWithDetails("invalid import mode", map[string]string{
			"mode": "must be replace or append",
		})
	}

	tickets, err := s.parseTickets(raw)
	if err != nil {
		return nil, err
	}

	batch, err := s.store.ImportTickets(ctx, mode, tickets)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to store tickets")
	}
	return &batch, nil
}

func (s *TicketService) parseTickets(raw []byte) ([]domain.Ticket, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, importError(ImportEmptyInput, "no ticket data to import")
	}
	if !json.Valid(trimmed) {
		return nil, importError(ImportInvalidJSON, "ticket data is not valid JSON; paste the full output of the export bookmarklet")
	}
	if trimmed[0] != '[' {
		return nil, importError(ImportNotArray, "ticket data must be a JSON array")
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "ticket data must be a JSON array")
	}

	tickets := make([]domain.Ticket, len(elems))
	details := make(map[string]string)
	for i, elem := range elems {
		prefix := fmt.Sprintf("tickets[%d]", i)

		var t domain.Ticket
		if err := json.Unmarshal(elem, &t); err != nil {
			details[prefix] = "must be an object with a string laneText"
			continue
		}
		t.LaneText = normalize.LaneText(t.LaneText)
		if err := s.validator.Validate(t); err != nil {
			mergeDetails(details, prefix, err)
			continue
		}
		tickets[i] = t
	}
	if len(details) > 0 {
		return nil, domainerrors.ValidationWithDetails("invalid tickets", details)
	}
	return tickets, nil
}

func importError(kind ImportErrorKind, msg string) error {
	return domainerrors.InvalidInput(msg).WithDetails(map[string]string{"kind": string(kind)})
}

// List returns one page of tickets colored for side.
func (s *TicketService) List(ctx context.Context, side domain.PlaySide, limit, offset int) (*TicketPage, error) {
	if err := s.atari.checkSide(side); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTicketLimit
	}
	limit = min(limit, MaxTicketLimit)
	offset = max(offset, 0)

	total, err := s.store.CountTickets(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to count tickets")
	}
	tickets, err := s.store.ListTickets(ctx, limit, offset)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list tickets")
	}

	return &TicketPage{
		Items:  colorize(s.atari.Snapshot().Index, tickets, side),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// Groups collapses the ticket list by lane text, colored for side.
func (s *TicketService) Groups(ctx context.Context, side domain.PlaySide) ([]GroupView, error) {
	if err := s.atari.checkSide(side); err != nil {
		return nil, err
	}

	stored, err := s.store.ListAllTickets(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list tickets")
	}

	tickets := make([]domain.Ticket, len(stored))
	for i, t := range stored {
		tickets[i] = t.Ticket
	}

	idx := s.atari.Snapshot().Index
	groups := atari.GroupByLaneText(tickets)
	views := make([]GroupView, len(groups))
	for i, g := range groups {
		views[i] = GroupView{
			LaneGroup: g,
			Color:     idx.ColorForTicket(domain.Ticket{LaneText: g.LaneText}, side),
		}
	}
	return views, nil
}

// Filter returns the stored tickets matching the request's pattern. In recommend mode
// with a chart, tickets must also hit at least one rule of that chart.
func (s *TicketService) Filter(ctx context.Context, req FilterRequest) (*FilterResult, error) {
	if err := s.atari.checkSide(req.Side); err != nil {
		return nil, err
	}
	if req.Mode == "" {
		req.Mode = FilterModeAll
	}
	if req.Mode != FilterModeAll && req.Mode != FilterModeRecommend {
		return nil, domainerrors.ValidationWithDetails("invalid filter", map[string]string{
			"mode": "must be all or recommend",
		})
	}
	if req.Chart != nil {
		if err := s.validator.ValidateVar("chart.difficulty", string(req.Chart.Difficulty), "difficulty"); err != nil {
			return nil, err
		}
	}

	p, err := pattern.Normalize(req.Pattern)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.ListAllTickets(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list tickets")
	}

	idx := s.atari.Snapshot().Index
	tickets := make([]domain.Ticket, len(stored))
	for i, t := range stored {
		tickets[i] = t.Ticket
	}

	kept := atari.FilterTickets(tickets, p, req.Side, idx.Matcher())
	if req.Mode == FilterModeRecommend && req.Chart != nil {
		kept = idx.FilterForChart(kept, *req.Chart, req.Side)
	}

	// Both filters depend only on the ticket value, so duplicates share a verdict.
	keep := make(map[domain.Ticket]struct{}, len(kept))
	for _, t := range kept {
		keep[t] = struct{}{}
	}
	matched := make([]domain.StoredTicket, 0, len(kept))
	for _, t := range stored {
		if _, ok := keep[t.Ticket]; ok {
			matched = append(matched, t)
		}
	}

	result := &FilterResult{
		Pattern: p,
		Tickets: colorize(idx, matched, req.Side),
	}
	if req.Chart != nil {
		result.ChartRules = idx.RulesForChart(req.Chart.SongID, req.Chart.Difficulty)
	}
	return result, nil
}

// Count returns the number of stored tickets.
func (s *TicketService) Count(ctx context.Context) (int, error) {
	n, err := s.store.CountTickets(ctx)
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to count tickets")
	}
	return n, nil
}

// Clear deletes every stored ticket and returns how many were removed.
func (s *TicketService) Clear(ctx context.Context) (int, error) {
	n, err := s.store.DeleteAllTickets(ctx)
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to clear tickets")
	}
	s.logger.Info("ticket list cleared", "removed", n)
	return n, nil
}

func colorize(idx *atari.Index, tickets []domain.StoredTicket, side domain.PlaySide) []TicketView {
	views := make([]TicketView, len(tickets))
	for i, t := range tickets {
		views[i] = TicketView{StoredTicket: t, Color: idx.ColorForTicket(t.Ticket, side)}
	}
	return views
}
