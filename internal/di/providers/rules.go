package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/laneticket/atari-server/internal/config"
	"github.com/laneticket/atari-server/internal/logger"
	"github.com/laneticket/atari-server/internal/pattern"
	"github.com/laneticket/atari-server/internal/ruleset"
	"github.com/laneticket/atari-server/internal/service"
	"github.com/laneticket/atari-server/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideRegistry provides the rule registry and loads the configured rule file.
// A rule file that cannot be loaded at startup is fatal; later reload failures are not.
func ProvideRegistry(i do.Injector) (*ruleset.Registry, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	partition, err := pattern.PartitionByName(cfg.Match.Partition)
	if err != nil {
		return nil, err
	}

	registry := ruleset.NewRegistry(log.Component("rules"), ruleset.Options{
		Path:    cfg.Rules.Path,
		Matcher: pattern.NewSideMatcher(partition),
	})

	if cfg.Rules.Path == "" {
		log.Warn("No rule file configured, starting with an empty rule set")
		return registry, nil
	}

	if _, _, err := registry.Reload(context.Background()); err != nil {
		return nil, fmt.Errorf("load rules from %s: %w", cfg.Rules.Path, err)
	}

	return registry, nil
}

// ProvideAtariService provides the matching service.
func ProvideAtariService(i do.Injector) (*service.AtariService, error) {
	registry := do.MustInvoke[*ruleset.Registry](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAtariService(registry, v, log.Logger), nil
}
