package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/laneticket/atari-server/internal/config"
	"github.com/laneticket/atari-server/internal/logger"
	"github.com/laneticket/atari-server/internal/service"
	"github.com/laneticket/atari-server/internal/validation"
)

// ProvideSongService provides the song catalog and loads the configured song file.
func ProvideSongService(i do.Injector) (*service.SongService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	atari := do.MustInvoke[*service.AtariService](i)
	v := do.MustInvoke[*validation.Validator](i)

	songs := service.NewSongService(cfg.Songs.Path, atari, v, log.Component("songs"))

	if cfg.Songs.Path == "" {
		log.Info("No song file configured, song catalog is empty")
		return songs, nil
	}

	if _, _, err := songs.Reload(context.Background()); err != nil {
		return nil, fmt.Errorf("load songs from %s: %w", cfg.Songs.Path, err)
	}

	return songs, nil
}
