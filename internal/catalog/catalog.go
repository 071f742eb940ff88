// Package catalog loads the song catalog and answers chart searches over it.
package catalog

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/normalize"
	"github.com/laneticket/atari-server/internal/ruleset"
	"github.com/laneticket/atari-server/internal/validation"
)

// SummaryDifficulties are the difficulties shown in a SongSummary row.
var SummaryDifficulties = []domain.Difficulty{
	domain.DifficultyHyper,
	domain.DifficultyAnother,
	domain.DifficultyLeggendaria,
}

// Catalog is an immutable, sorted list of charts.
type Catalog struct {
	Version  string
	Songs    []domain.Song
	LoadedAt time.Time

	folded  []foldedText
	bySong  map[string][]int
	byChart map[domain.ChartKey]int
}

// foldedText caches the search forms of one song.
type foldedText struct {
	title   string
	version string
}

// Query selects charts. Empty fields do not filter.
type Query struct {
	Title        string
	Version      string
	Difficulties []domain.Difficulty
	Levels       []int
	// OnlyWithAtari keeps charts for which hasRules reports true.
	// It is ignored when Search is given no hasRules func.
	OnlyWithAtari bool
}

var validator = sync.OnceValue(validation.New)

// Empty returns a catalog without songs.
func Empty() *Catalog {
	c, _ := New(nil)
	return c
}

// Load reads and parses a song file. The format is inferred from the extension.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domainerrors.Wrapf(err, domainerrors.CodeUnavailable, "reading song file %s", filepath.Base(path))
	}
	songs, err := Parse(data, ruleset.FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	return New(songs)
}

// Parse decodes a song array and validates every entry. IDs must be unique.
// Field errors are reported in the details keyed by "songs[i].field".
func Parse(data []byte, format ruleset.Format) ([]domain.Song, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domainerrors.InvalidInput("song file is empty")
	}

	var songs []domain.Song
	if err := ruleset.Decode(data, format, &songs, "song"); err != nil {
		return nil, err
	}

	v := validator()
	details := make(map[string]string)
	seen := make(map[string]int, len(songs))

	for i := range songs {
		prefix := fmt.Sprintf("songs[%d]", i)

		if err := v.Validate(songs[i]); err != nil {
			var domainErr *domainerrors.Error
			if domainerrors.As(err, &domainErr) {
				if fields, ok := domainErr.Details.(map[string]string); ok {
					for field, msg := range fields {
						details[prefix+"."+field] = msg
					}
					continue
				}
			}
			details[prefix] = err.Error()
			continue
		}

		if j, dup := seen[songs[i].ID]; dup {
			details[prefix+".id"] = fmt.Sprintf("duplicates songs[%d]", j)
			continue
		}
		seen[songs[i].ID] = i

		if songs[i].TitleNormalized == "" {
			songs[i].TitleNormalized = songs[i].Title
		}
	}

	if len(details) > 0 {
		return nil, domainerrors.ValidationWithDetails("invalid song catalog", details)
	}
	return songs, nil
}

// New sorts a copy of songs by title (Japanese collation) and difficulty and indexes it.
func New(songs []domain.Song) (*Catalog, error) {
	songs = slices.Clone(songs)
	if songs == nil {
		songs = []domain.Song{}
	}

	data, err := json.Marshal(songs)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInvalidInput, "song catalog cannot be encoded")
	}
	sum := blake3.Sum256(data)

	col := collate.New(language.Japanese)
	slices.SortStableFunc(songs, func(a, b domain.Song) int {
		if c := col.CompareString(sortTitle(a), sortTitle(b)); c != 0 {
			return c
		}
		if c := difficultyRank(a.Difficulty) - difficultyRank(b.Difficulty); c != 0 {
			return c
		}
		return strings.Compare(a.SongID, b.SongID)
	})

	c := &Catalog{
		Version:  hex.EncodeToString(sum[:]),
		Songs:    songs,
		LoadedAt: time.Now(),
		folded:   make([]foldedText, len(songs)),
		bySong:   make(map[string][]int),
		byChart:  make(map[domain.ChartKey]int, len(songs)),
	}
	for i := range songs {
		c.folded[i] = foldedText{
			title:   normalize.SearchText(sortTitle(songs[i])),
			version: normalize.SearchText(songs[i].VersionName),
		}
		c.bySong[songs[i].SongID] = append(c.bySong[songs[i].SongID], i)
		c.byChart[songs[i].Chart()] = i
	}
	return c, nil
}

// Len is the number of charts in the catalog.
func (c *Catalog) Len() int {
	return len(c.Songs)
}

// SongCount is the number of distinct songs.
func (c *Catalog) SongCount() int {
	return len(c.bySong)
}

// Chart returns the catalog entry for one chart.
func (c *Catalog) Chart(key domain.ChartKey) (domain.Song, bool) {
	i, ok := c.byChart[key]
	if !ok {
		return domain.Song{}, false
	}
	return c.Songs[i], true
}

// Song returns every chart of one song in difficulty order, or nil.
func (c *Catalog) Song(songID string) []domain.Song {
	idx := c.bySong[songID]
	if len(idx) == 0 {
		return nil
	}
	out := make([]domain.Song, len(idx))
	for i, j := range idx {
		out[i] = c.Songs[j]
	}
	return out
}

// Search returns the charts matching q in catalog order. Title and version match
// as substrings after folding with normalize.SearchText.
func (c *Catalog) Search(q Query, hasRules func(domain.ChartKey) bool) []domain.Song {
	title := normalize.SearchText(q.Title)
	version := normalize.SearchText(q.Version)
	onlyWithAtari := q.OnlyWithAtari && hasRules != nil

	out := make([]domain.Song, 0)
	for i := range c.Songs {
		song := &c.Songs[i]
		if len(q.Difficulties) > 0 && !slices.Contains(q.Difficulties, song.Difficulty) {
			continue
		}
		if len(q.Levels) > 0 && !slices.Contains(q.Levels, song.Level) {
			continue
		}
		if title != "" && !strings.Contains(c.folded[i].title, title) {
			continue
		}
		if version != "" && !strings.Contains(c.folded[i].version, version) {
			continue
		}
		if onlyWithAtari && !hasRules(song.Chart()) {
			continue
		}
		out = append(out, *song)
	}
	return out
}

// Summarize groups charts by song, keeping only SummaryDifficulties.
// Rows are ordered by title (Japanese collation), then song ID.
func Summarize(songs []domain.Song) []domain.SongSummary {
	rows := make([]domain.SongSummary, 0)
	pos := make(map[string]int)
	titles := make(map[string]string)

	for _, song := range songs {
		if !slices.Contains(SummaryDifficulties, song.Difficulty) {
			continue
		}
		i, ok := pos[song.SongID]
		if !ok {
			i = len(rows)
			pos[song.SongID] = i
			titles[song.SongID] = sortTitle(song)
			rows = append(rows, domain.SongSummary{
				SongID:      song.SongID,
				Title:       song.Title,
				VersionName: song.VersionName,
				Charts:      make(map[domain.Difficulty]domain.Song, len(SummaryDifficulties)),
			})
		}
		rows[i].Charts[song.Difficulty] = song
	}

	col := collate.New(language.Japanese)
	slices.SortStableFunc(rows, func(a, b domain.SongSummary) int {
		if c := col.CompareString(titles[a.SongID], titles[b.SongID]); c != 0 {
			return c
		}
		return strings.Compare(a.SongID, b.SongID)
	})
	return rows
}

func sortTitle(s domain.Song) string {
	if s.TitleNormalized != "" {
		return s.TitleNormalized
	}
	return s.Title
}

func difficultyRank(d domain.Difficulty) int {
	if i := slices.Index(domain.Difficulties, d); i >= 0 {
		return i
	}
	return len(domain.Difficulties)
}
