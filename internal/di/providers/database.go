package providers

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/laneticket/atari-server/internal/config"
	"github.com/laneticket/atari-server/internal/logger"
	"github.com/laneticket/atari-server/internal/store"
	"github.com/laneticket/atari-server/internal/store/sqlite"
)

// TicketStoreHandle wraps the SQLite ticket store with shutdown capability.
type TicketStoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *TicketStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideTicketStore provides the ticket database.
func ProvideTicketStore(i do.Injector) (*TicketStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(cfg.Data.BasePath, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Data.BasePath, "tickets.db")
	db, err := sqlite.Open(dbPath, log.Component("tickets"))
	if err != nil {
		return nil, err
	}

	log.Info("Ticket database initialized", "path", dbPath)

	return &TicketStoreHandle{Store: db}, nil
}

// MemoStoreHandle wraps the Badger memo store with shutdown capability.
type MemoStoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *MemoStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideMemoStore provides the memo database.
func ProvideMemoStore(i do.Injector) (*MemoStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "memos")
	db, err := store.New(dbPath, log.Component("memos"))
	if err != nil {
		return nil, err
	}

	log.Info("Memo database initialized", "path", dbPath)

	return &MemoStoreHandle{Store: db}, nil
}
