package providers

import (
	"github.com/samber/do/v2"

	"github.com/laneticket/atari-server/internal/logger"
	"github.com/laneticket/atari-server/internal/service"
	"github.com/laneticket/atari-server/internal/validation"
)

// ProvideTicketService provides the ticket service.
func ProvideTicketService(i do.Injector) (*service.TicketService, error) {
	storeHandle := do.MustInvoke[*TicketStoreHandle](i)
	atari := do.MustInvoke[*service.AtariService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTicketService(storeHandle.Store, atari, v, log.Logger), nil
}

// ProvideMemoService provides the memo service.
func ProvideMemoService(i do.Injector) (*service.MemoService, error) {
	storeHandle := do.MustInvoke[*MemoStoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMemoService(storeHandle.Store, v, log.Logger), nil
}
