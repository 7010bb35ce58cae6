package container

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// ErrNotBound is returned by Get when no binding exists for an id.
var ErrNotBound = errors.New("container: id not bound")

// binding describes how to produce the value for an id.
type binding struct {
	typ     reflect.Type
	factory func() (any, error)
	shared  bool
}

// Container resolves values by string id.
// It uses sync.RWMutex because lookups vastly outnumber bindings, which
// normally happen once while the application boots.
type Container struct {
	mu        sync.RWMutex
	bindings  map[string]binding
	instances map[string]any
}

// New creates an empty container.
func New() *Container {
	return &Container{
		bindings:  make(map[string]binding),
		instances: make(map[string]any),
	}
}

// Singleton binds id to a factory whose result is created on first Get and
// reused afterwards. Rebinding an id drops any cached instance.
func Singleton[T any](c *Container, id string, factory func() (T, error)) {
	c.bind(id, reflect.TypeFor[T](), func() (any, error) { return factory() }, true)
}

// Factory binds id to a factory that runs on every Get.
func Factory[T any](c *Container, id string, factory func() (T, error)) {
	c.bind(id, reflect.TypeFor[T](), func() (any, error) { return factory() }, false)
}

// Instance binds id to an existing value.
func Instance[T any](c *Container, id string, value T) {
	c.bind(id, reflect.TypeFor[T](), func() (any, error) { return value, nil }, true)
}

func (c *Container) bind(id string, typ reflect.Type, factory func() (any, error), shared bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[id] = binding{typ: typ, factory: factory, shared: shared}
	delete(c.instances, id)
}

// Has returns true if id is bound.
func (c *Container) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bindings[id]
	return ok
}

// TypeOf returns the declared type of the value bound to id without
// creating it.
func (c *Container) TypeOf(id string) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[id]
	if !ok {
		return nil, false
	}
	return b.typ, true
}

// Get returns the value bound to id.
//
// Shared bindings are created at most once, even under concurrent access.
// A factory error is returned as-is and nothing is cached.
func (c *Container) Get(id string) (any, error) {
	// Fast path: cached shared instance
	c.mu.RLock()
	v, ok := c.instances[id]
	b, bound := c.bindings[id]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}
	if !bound {
		return nil, fmt.Errorf("%w: %s", ErrNotBound, id)
	}

	if !b.shared {
		return b.factory()
	}

	// Slow path: create under write lock
	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if v, ok := c.instances[id]; ok {
		return v, nil
	}

	v, err := b.factory()
	if err != nil {
		return nil, fmt.Errorf("container: create %s: %w", id, err)
	}
	c.instances[id] = v
	return v, nil
}

// IDs returns all bound ids in lexical order.
func (c *Container) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.bindings))
	for id := range c.bindings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
