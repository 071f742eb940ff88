package ruleset

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/zeebo/blake3"

	"github.com/laneticket/atari-server/internal/atari"
	"github.com/laneticket/atari-server/internal/domain"
)

// Snapshot is one compiled rule set. Snapshots are immutable; a reader that holds
// one keeps a consistent view even after the registry moves on.
type Snapshot struct {
	Version  string
	Rules    []domain.AtariRule
	Index    *atari.Index
	LoadedAt time.Time
}

// Fingerprint returns the hex BLAKE3 digest of the canonical JSON encoding of rules.
// Equal rule lists in equal order share a fingerprint.
func Fingerprint(rules []domain.AtariRule) string {
	if rules == nil {
		rules = []domain.AtariRule{}
	}
	data, err := json.Marshal(rules)
	if err != nil {
		// AtariRule only holds strings, ints and bools.
		panic(err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func newSnapshot(rules []domain.AtariRule, opts ...atari.Option) *Snapshot {
	return &Snapshot{
		Version:  Fingerprint(rules),
		Rules:    rules,
		Index:    atari.Build(rules, opts...),
		LoadedAt: time.Now(),
	}
}
