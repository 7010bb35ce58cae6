package hook

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ActionFunc is an action callback.
type ActionFunc func(ctx context.Context, args ...any) error

// FilterFunc is a filter callback. It returns the new value.
type FilterFunc func(ctx context.Context, value any, args ...any) (any, error)

type registration struct {
	Registration
	seq int64
}

// Registry is an in-process Host.
//
// Callbacks added while a hook fires run in that same firing if their
// priority is later than the one currently executing. A callback error
// aborts the firing.
type Registry struct {
	mu     sync.RWMutex
	seq    int64
	front  int64
	hooks  map[string][]*registration
	firing map[string]int
	counts map[string]int
	stack  []string
}

var _ Host = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks:  make(map[string][]*registration),
		firing: make(map[string]int),
		counts: make(map[string]int),
	}
}

// Add implements Host.
func (r *Registry) Add(hook string, cb Callback, priority, acceptedArgs int) CallbackID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	reg := &registration{
		Registration: Registration{
			ID:           CallbackID(uuid.New().String()),
			Hook:         hook,
			Priority:     priority,
			AcceptedArgs: acceptedArgs,
			Callback:     cb,
		},
		seq: r.seq,
	}
	r.hooks[hook] = append(r.hooks[hook], reg)
	r.sort(hook)
	return reg.ID
}

// AddAction registers an action callback.
func (r *Registry) AddAction(hook string, fn ActionFunc, priority, acceptedArgs int) CallbackID {
	return r.Add(hook, func(ctx context.Context, args ...any) (any, error) {
		return nil, fn(ctx, args...)
	}, priority, acceptedArgs)
}

// AddFilter registers a filter callback. acceptedArgs counts the filtered
// value, so a filter that only needs the value uses 1.
func (r *Registry) AddFilter(hook string, fn FilterFunc, priority, acceptedArgs int) CallbackID {
	return r.Add(hook, func(ctx context.Context, args ...any) (any, error) {
		if len(args) == 0 {
			return fn(ctx, nil)
		}
		return fn(ctx, args[0], args[1:]...)
	}, priority, acceptedArgs)
}

// Remove implements Host.
func (r *Registry) Remove(hook string, id CallbackID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	regs := r.hooks[hook]
	i := slices.IndexFunc(regs, func(reg *registration) bool { return reg.ID == id })
	if i < 0 {
		return false
	}
	r.hooks[hook] = slices.Concat(regs[:i], regs[i+1:])
	return true
}

// Callbacks implements Host.
func (r *Registry) Callbacks(hook string) []Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	regs := r.hooks[hook]
	out := make([]Registration, len(regs))
	for i, reg := range regs {
		out[i] = reg.Registration
	}
	return out
}

// IsFiring implements Host.
func (r *Registry) IsFiring(hook string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.firing[hook] > 0
}

// SetPriority implements Host.
func (r *Registry) SetPriority(hook string, id CallbackID, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, err := r.find(hook, id)
	if err != nil {
		return err
	}
	r.seq++
	reg.Priority, reg.seq = priority, r.seq
	r.sort(hook)
	return nil
}

// SetPriorityFirst implements Host.
func (r *Registry) SetPriorityFirst(hook string, id CallbackID, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, err := r.find(hook, id)
	if err != nil {
		return err
	}
	// Negative sequence numbers sort ahead of every Add.
	r.front--
	reg.Priority, reg.seq = priority, r.front
	r.sort(hook)
	return nil
}

// find returns the registration for id. Callers hold r.mu.
func (r *Registry) find(hook string, id CallbackID) (*registration, error) {
	for _, reg := range r.hooks[hook] {
		if reg.ID == id {
			return reg, nil
		}
	}
	return nil, fmt.Errorf("%w: %s on %q", ErrCallbackNotFound, id, hook)
}

// sort orders callbacks by priority, then registration. Callers hold r.mu.
// The slice is replaced so snapshots taken by a firing stay intact.
func (r *Registry) sort(hook string) {
	sorted := slices.Clone(r.hooks[hook])
	slices.SortStableFunc(sorted, func(a, b *registration) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	r.hooks[hook] = sorted
}

// DoAction fires an action hook.
func (r *Registry) DoAction(ctx context.Context, hook string, args ...any) error {
	_, err := r.fire(ctx, hook, args, false)
	return err
}

// ApplyFilters passes value through every filter on hook and returns the
// result. args are passed to each callback after the value.
func (r *Registry) ApplyFilters(ctx context.Context, hook string, value any, args ...any) (any, error) {
	return r.fire(ctx, hook, append([]any{value}, args...), true)
}

// DidAction returns how many times hook has fired.
func (r *Registry) DidAction(hook string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counts[hook]
}

// Current returns the innermost hook currently firing, or "".
func (r *Registry) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.stack) == 0 {
		return ""
	}
	return r.stack[len(r.stack)-1]
}

func (r *Registry) fire(ctx context.Context, hook string, args []any, filter bool) (any, error) {
	r.mu.Lock()
	r.firing[hook]++
	r.counts[hook]++
	r.stack = append(r.stack, hook)
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.firing[hook]--
		if r.firing[hook] == 0 {
			delete(r.firing, hook)
		}
		for i := len(r.stack) - 1; i >= 0; i-- {
			if r.stack[i] == hook {
				r.stack = slices.Delete(r.stack, i, i+1)
				break
			}
		}
		r.mu.Unlock()
	}()

	var value any
	if filter {
		value = args[0]
	}

	last, started := 0, false
	for {
		batch, priority := r.nextBatch(hook, started, last)
		if len(batch) == 0 {
			break
		}
		for _, reg := range batch {
			if filter {
				args[0] = value
			}
			result, err := reg.Callback(ctx, limit(args, reg.AcceptedArgs)...)
			if err != nil {
				return value, err
			}
			if filter {
				value = result
			}
		}
		last, started = priority, true
	}
	return value, nil
}

// nextBatch returns the callbacks at the lowest priority after last.
func (r *Registry) nextBatch(hook string, started bool, last int) ([]Registration, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var batch []Registration
	priority := 0
	for _, reg := range r.hooks[hook] {
		if started && reg.Priority <= last {
			continue
		}
		if batch == nil {
			priority = reg.Priority
		} else if reg.Priority != priority {
			break
		}
		batch = append(batch, reg.Registration)
	}
	return batch, priority
}

func limit(args []any, accepted int) []any {
	if accepted < 0 || accepted >= len(args) {
		return args
	}
	return args[:accepted]
}
