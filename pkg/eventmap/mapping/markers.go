package mapping

import (
	"reflect"

	"github.com/randalmurphal/eventmap/pkg/eventmap/event"
)

// MappedAction marks events mapped to action hooks. Embed Action to
// implement it.
type MappedAction interface {
	mappedAction()
}

// MappedFilter marks events mapped to filter hooks. Embed Filter and
// implement FilterableAttribute, whose result is handed back to the hook
// system after dispatch.
type MappedFilter interface {
	mappedFilter()
	FilterableAttribute() any
}

// DispatchConditionally lets a mapped event veto its own dispatch. When
// ShouldDispatch returns false no listener runs and filters pass their
// original value through.
type DispatchConditionally interface {
	ShouldDispatch() bool
}

// Action is embedded by events mapped to action hooks.
type Action struct{}

func (Action) mappedAction() {}

// Filter is embedded by events mapped to filter hooks.
type Filter struct{}

func (Filter) mappedFilter() {}

var (
	actionType      = reflect.TypeFor[MappedAction]()
	filterType      = reflect.TypeFor[MappedFilter]()
	conditionalType = reflect.TypeFor[DispatchConditionally]()
)

func init() {
	event.MarkInternal(actionType, filterType, conditionalType)
}
