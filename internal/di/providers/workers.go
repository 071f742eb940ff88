package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/laneticket/atari-server/internal/config"
	"github.com/laneticket/atari-server/internal/logger"
	"github.com/laneticket/atari-server/internal/ruleset"
	"github.com/laneticket/atari-server/internal/watcher"
)

// RuleWatcherHandle wraps the rule file watcher with shutdown capability.
// Watcher is nil when watching is disabled or no rule file is configured.
type RuleWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *RuleWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideRuleWatcher provides the rule file watcher and feeds its events to the registry.
func ProvideRuleWatcher(i do.Injector) (*RuleWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	registry := do.MustInvoke[*ruleset.Registry](i)

	if !cfg.Rules.Watch || cfg.Rules.Path == "" {
		log.Info("Rule file watching disabled")
		return &RuleWatcherHandle{}, nil
	}

	w, err := watcher.New(log.Component("watcher"), watcher.Options{SettleDelay: cfg.Rules.SettleDelay})
	if err != nil {
		return nil, err
	}

	if err := w.Watch(cfg.Rules.Path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil {
			log.WithError(err).Error("Rule watcher stopped")
		}
	}()
	go registry.Watch(ctx, w.Events())
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-w.Errors():
				if !ok {
					return
				}
				log.WithError(err).Warn("Rule watcher error")
			}
		}
	}()

	log.Info("Watching rule file", "path", cfg.Rules.Path, "settle_delay", cfg.Rules.SettleDelay)

	return &RuleWatcherHandle{Watcher: w, cancel: cancel}, nil
}
