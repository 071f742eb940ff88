package api

import (
	"github.com/laneticket/atari-server/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Atari      *service.AtariService
	Tickets    *service.TicketService
	Memos      *service.MemoService
	RuleSearch *service.RuleSearchService
	Songs      *service.SongService
}
