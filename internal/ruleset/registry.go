package ruleset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/laneticket/atari-server/internal/atari"
	"github.com/laneticket/atari-server/internal/domain"
	domainerrors "github.com/laneticket/atari-server/internal/errors"
	"github.com/laneticket/atari-server/internal/pattern"
	"github.com/laneticket/atari-server/internal/watcher"
)

// SwapFunc is notified after a new snapshot became current.
type SwapFunc func(ctx context.Context, snap *Snapshot)

// Registry publishes the current rule snapshot.
//
// Readers call Current and keep the returned snapshot for the duration of their work.
// Writers build a complete new snapshot and swap it in; nothing is mutated in place.
type Registry struct {
	path    string
	format  Format
	matcher pattern.Matcher
	logger  *slog.Logger

	current atomic.Pointer[Snapshot]

	// mu serializes writers and guards hooks.
	mu    sync.Mutex
	hooks []SwapFunc
}

// Options configures a Registry.
type Options struct {
	// Path is the rule file; empty means rules are only supplied through Replace.
	Path string
	// Format overrides the format inferred from Path.
	Format Format
	// Matcher is passed to every index built by the registry.
	Matcher pattern.Matcher
}

// NewRegistry creates a registry holding an empty snapshot.
func NewRegistry(logger *slog.Logger, opts Options) *Registry {
	if opts.Format == "" && opts.Path != "" {
		opts.Format = FormatFromPath(opts.Path)
	}
	if opts.Matcher == nil {
		opts.Matcher = pattern.NewSideMatcher(nil)
	}

	r := &Registry{
		path:    opts.Path,
		format:  opts.Format,
		matcher: opts.Matcher,
		logger:  logger,
	}
	r.current.Store(newSnapshot(nil, atari.WithMatcher(r.matcher)))
	return r
}

// Path returns the configured rule file.
func (r *Registry) Path() string {
	return r.path
}

// Current returns the snapshot in effect. It never returns nil.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// OnSwap registers fn to run after every swap.
func (r *Registry) OnSwap(fn SwapFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

// Replace validates a copy of rules, builds a new snapshot and makes it current.
func (r *Registry) Replace(ctx context.Context, rules []domain.AtariRule) (*Snapshot, error) {
	rules = cloneRules(rules)
	if err := normalize(rules); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.swapLocked(ctx, rules), nil
}

// Reload re-reads the rule file. When its content fingerprint matches the current
// snapshot the swap is skipped and changed is false.
func (r *Registry) Reload(ctx context.Context) (snap *Snapshot, changed bool, err error) {
	if r.path == "" {
		return nil, false, domainerrors.Unavailable("no rule file configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, false, domainerrors.Wrapf(err, domainerrors.CodeUnavailable, "reading rule file %s", filepath.Base(r.path))
	}

	rules, err := Parse(data, r.format)
	if err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cur := r.current.Load(); cur.Version == Fingerprint(rules) {
		r.logger.Debug("rule file unchanged", "path", r.path, "version", shortVersion(cur.Version))
		return cur, false, nil
	}
	return r.swapLocked(ctx, rules), true, nil
}

func (r *Registry) swapLocked(ctx context.Context, rules []domain.AtariRule) *Snapshot {
	snap := newSnapshot(rules, atari.WithMatcher(r.matcher))
	prev := r.current.Swap(snap)

	r.logger.Info("rule set loaded",
		"version", shortVersion(snap.Version),
		"previous", shortVersion(prev.Version),
		"rules", snap.Index.RuleCount(),
		"patterns", snap.Index.PatternCount(),
		"charts", len(snap.Index.Charts()),
	)

	for _, hook := range r.hooks {
		hook(ctx, snap)
	}
	return snap
}

// Watch reloads the rule file whenever events reports it changed, until ctx is done
// or events is closed. Failed reloads are logged and the current snapshot is kept.
func (r *Registry) Watch(ctx context.Context, events <-chan watcher.Event) {
	target := filepath.Clean(r.path)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Path != target {
				continue
			}

			switch event.Type {
			case watcher.EventRemoved:
				r.logger.Warn("rule file removed, keeping current rules", "path", r.path)
			case watcher.EventChanged:
				if _, _, err := r.Reload(ctx); err != nil {
					r.logger.Error("rule reload failed, keeping current rules", "path", r.path, "error", err)
				}
			}
		}
	}
}

func shortVersion(v string) string {
	if len(v) > 12 {
		return v[:12]
	}
	return v
}

func cloneRules(rules []domain.AtariRule) []domain.AtariRule {
	out := slices.Clone(rules)
	for i := range out {
		out[i].Patterns = slices.Clone(out[i].Patterns)
	}
	return out
}
