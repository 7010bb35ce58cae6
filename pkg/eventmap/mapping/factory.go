package mapping

import (
	"reflect"

	"github.com/randalmurphal/eventmap/pkg/eventmap/internal/reflectcall"
)

// EventFactory builds a mapped event from raw hook arguments.
type EventFactory interface {
	Create(ctor any, args []any) (any, error)
}

// ReflectFactory calls the constructor reflectively. Arguments must match
// its parameters in number and be assignable to their types; variadic
// constructors accept any number of trailing arguments.
type ReflectFactory struct{}

// Create implements EventFactory.
func (ReflectFactory) Create(ctor any, args []any) (any, error) {
	fn := reflect.ValueOf(ctor)
	in, err := reflectcall.Args(fn.Type(), 0, args)
	if err != nil {
		return nil, err
	}

	out := fn.Call(in)
	if len(out) == 2 {
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
	}
	return out[0].Interface(), nil
}
