// Package middleware resolves the ordered middleware list for a route.
//
// A Stack is configured while the application boots: groups, aliases, and
// a priority list. Seal makes the configuration read-only, after which the
// stack is safe to share across concurrent requests.
//
// Resolution for a route:
//
//  1. Take the route's middleware and append the global group.
//  2. Expand group names recursively.
//  3. Replace aliases with the ids they stand for.
//  4. Drop duplicates, keeping the first occurrence.
//  5. Reorder ids named in the priority list by their position in it.
//     Ids not in the list keep their relative order.
package middleware

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/eventmap/pkg/eventmap/observability"
)

// Stack holds middleware configuration and resolves routes against it.
type Stack struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder

	disabled atomic.Bool

	mu       sync.RWMutex
	sealed   bool
	groups   map[string][]string
	aliases  map[string]string
	priority []string
}

// New creates an empty stack.
func New(opts ...Option) *Stack {
	s := &Stack{
		logger:  observability.EnrichLogger(slog.Default(), "middleware"),
		metrics: observability.NoopMetrics{},
		groups:  make(map[string][]string),
		aliases: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetGroup defines or replaces a group. Members may name other groups.
func (s *Stack) SetGroup(name string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return ErrSealed
	}
	s.groups[name] = slices.Clone(members)
	return nil
}

// SetGroups defines several groups at once.
func (s *Stack) SetGroups(groups map[string][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return ErrSealed
	}
	for name, members := range groups {
		s.groups[name] = slices.Clone(members)
	}
	return nil
}

// Alias makes alias stand for id.
func (s *Stack) Alias(alias, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return ErrSealed
	}
	s.aliases[alias] = id
	return nil
}

// SetPriority replaces the priority list. Entries may be aliases.
func (s *Stack) SetPriority(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return ErrSealed
	}
	s.priority = slices.Clone(ids)
	return nil
}

// DisableAllMiddleware makes every later resolution return an empty list.
// It is allowed after Seal.
func (s *Stack) DisableAllMiddleware() {
	s.disabled.Store(true)
}

// Disabled reports whether DisableAllMiddleware was called.
func (s *Stack) Disabled() bool {
	return s.disabled.Load()
}

// Seal makes the configuration read-only.
func (s *Stack) Seal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealed = true
}

// Sealed reports whether Seal was called.
func (s *Stack) Sealed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sealed
}

// Groups returns a copy of the configured groups.
func (s *Stack) Groups() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.groups))
	for name, members := range s.groups {
		out[name] = slices.Clone(members)
	}
	return out
}

// Aliases returns a copy of the configured aliases.
func (s *Stack) Aliases() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.aliases)
}

// CreateForRoute resolves the middleware for route.
func (s *Stack) CreateForRoute(ctx context.Context, route Route) ([]Blueprint, error) {
	return s.create(ctx, route.Name(), route.Middleware(), GroupGlobal)
}

// CreateForRequestWithoutRoute resolves the middleware for a request that
// matched no route, using the group for kind (web, admin, or ajax).
func (s *Stack) CreateForRequestWithoutRoute(ctx context.Context, kind string) ([]Blueprint, error) {
	switch kind {
	case GroupWeb, GroupAdmin, GroupAjax:
	default:
		return nil, ErrUnknownRequestKind
	}
	return s.create(ctx, kind, nil, kind, GroupGlobal)
}

// create resolves declared followed by the members of groups. Groups that
// were never defined contribute nothing.
func (s *Stack) create(ctx context.Context, name string, declared []string, groups ...string) ([]Blueprint, error) {
	if s.disabled.Load() {
		return []Blueprint{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := slices.Clone(declared)
	for _, g := range groups {
		if _, ok := s.groups[g]; ok {
			refs = append(refs, g)
		}
	}
	expanded, err := s.expand(refs, nil)
	if err != nil {
		return nil, err
	}

	resolved := make([]Blueprint, 0, len(expanded))
	seen := make(map[string]struct{}, len(expanded))
	for _, b := range expanded {
		if id, ok := s.aliases[b.ID]; ok {
			b.ID = id
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		resolved = append(resolved, b)
	}

	sorted := SortByPriority(s.resolvedPriority(), resolved)

	s.metrics.RecordMiddlewareStack(ctx, len(sorted))
	observability.LogMiddlewareResolved(s.logger, name, names(sorted))
	return sorted, nil
}

// expand replaces group names with their members. path holds the groups
// being expanded. Callers hold s.mu.
func (s *Stack) expand(refs []string, path []string) ([]Blueprint, error) {
	var out []Blueprint
	for _, ref := range refs {
		b := Parse(ref)
		members, isGroup := s.groups[b.ID]
		if !isGroup || len(b.Args) > 0 {
			out = append(out, b)
			continue
		}
		if slices.Contains(path, b.ID) {
			return nil, &GroupCycleError{Path: append(slices.Clone(path), b.ID)}
		}
		inner, err := s.expand(members, append(path, b.ID))
		if err != nil {
			return nil, err
		}
		out = append(out, inner...)
	}
	return out, nil
}

func (s *Stack) resolvedPriority() []string {
	out := make([]string, len(s.priority))
	for i, id := range s.priority {
		if target, ok := s.aliases[id]; ok {
			id = target
		}
		out[i] = id
	}
	return out
}

func names(blueprints []Blueprint) []string {
	out := make([]string, len(blueprints))
	for i, b := range blueprints {
		out[i] = b.String()
	}
	return out
}

// SortByPriority orders middleware named in priority by their index in
// it. Whenever a listed middleware appears after one with a later index,
// it is moved directly in front of that one and the scan restarts.
// Middleware not in priority keep their position relative to their
// neighbours.
func SortByPriority(priority []string, middleware []Blueprint) []Blueprint {
	index := make(map[string]int, len(priority))
	for i, id := range priority {
		if _, ok := index[id]; !ok {
			index[id] = i
		}
	}

	out := slices.Clone(middleware)
	for {
		moved := false
		lastIndex, lastPriority := 0, -1
		for i, b := range out {
			p, ok := index[b.ID]
			if !ok {
				continue
			}
			if lastPriority >= 0 && p < lastPriority {
				out = move(out, i, lastIndex)
				moved = true
				break
			}
			lastIndex, lastPriority = i, p
		}
		if !moved {
			return out
		}
	}
}

// move takes the element at from and inserts it at to (to < from).
func move(s []Blueprint, from, to int) []Blueprint {
	b := s[from]
	s = slices.Delete(s, from, from+1)
	return slices.Insert(s, to, b)
}

// String formats blueprints as a comma separated list.
func String(blueprints []Blueprint) string {
	return strings.Join(names(blueprints), ", ")
}
