package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/laneticket/atari-server/internal/config"
	"github.com/laneticket/atari-server/internal/logger"
	"github.com/laneticket/atari-server/internal/ruleset"
	"github.com/laneticket/atari-server/internal/search"
	"github.com/laneticket/atari-server/internal/service"
	"github.com/laneticket/atari-server/internal/validation"
)

// SearchIndexHandle wraps search.SearchIndex with Shutdownable.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve rule search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: filepath.Join(cfg.Data.BasePath, "search"),
		Logger:   log.Component("search"),
	})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideRuleSearchService provides the rule search service.
// It subscribes to registry swaps, so later reloads reindex on their own.
func ProvideRuleSearchService(i do.Injector) (*service.RuleSearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	registry := do.MustInvoke[*ruleset.Registry](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRuleSearchService(indexHandle.SearchIndex, registry, v, log.Logger), nil
}
