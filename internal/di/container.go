// Package di provides dependency injection configuration for the atari server.
package di

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/laneticket/atari-server/internal/config"
	"github.com/laneticket/atari-server/internal/di/providers"
	"github.com/laneticket/atari-server/internal/logger"
	"github.com/laneticket/atari-server/internal/ruleset"
	"github.com/laneticket/atari-server/internal/service"
	"github.com/laneticket/atari-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideTicketStore)
	do.Provide(injector, providers.ProvideMemoStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Rules
	do.Provide(injector, providers.ProvideRegistry)
	do.Provide(injector, providers.ProvideAtariService)
	do.Provide(injector, providers.ProvideRuleSearchService)
	do.Provide(injector, providers.ProvideSongService)

	// Business services
	do.Provide(injector, providers.ProvideTicketService)
	do.Provide(injector, providers.ProvideMemoService)

	// Workers
	do.Provide(injector, providers.ProvideRuleWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services in dependency order.
// Any provider error is returned instead of panicking.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	if _, err := do.Invoke[*providers.TicketStoreHandle](injector); err != nil {
		return fmt.Errorf("ticket store: %w", err)
	}
	if _, err := do.Invoke[*providers.MemoStoreHandle](injector); err != nil {
		return fmt.Errorf("memo store: %w", err)
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return fmt.Errorf("search index: %w", err)
	}
	if _, err := do.Invoke[*ruleset.Registry](injector); err != nil {
		return fmt.Errorf("rules: %w", err)
	}

	_ = do.MustInvoke[*service.AtariService](injector)
	ruleSearch := do.MustInvoke[*service.RuleSearchService](injector)
	if _, err := do.Invoke[*service.SongService](injector); err != nil {
		return fmt.Errorf("songs: %w", err)
	}
	_ = do.MustInvoke[*service.TicketService](injector)
	_ = do.MustInvoke[*service.MemoService](injector)

	// The registry loaded before the search service subscribed to swaps.
	if err := ruleSearch.Sync(context.Background()); err != nil {
		log.Error("Failed to index rules", "error", err)
	}

	// Workers
	if _, err := do.Invoke[*providers.RuleWatcherHandle](injector); err != nil {
		return fmt.Errorf("rule watcher: %w", err)
	}

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}
