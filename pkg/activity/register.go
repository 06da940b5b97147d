package activity

import (
	"fmt"
	"reflect"

	"go.temporal.io/sdk/activity"

	"github.com/ahrav/go-opbuilder/pkg/operation"
)

// Registry is the part of a Temporal worker that accepts named activities.
// Both worker.Worker and the SDK's test activity environment satisfy it.
type Registry interface {
	RegisterActivityWithOptions(a any, options activity.RegisterOptions)
}

// Register registers the FromFields activity for operation T under T's
// declared name. Undeclared types return operation.ErrNotDeclared.
func Register[T, R any](r Registry, newBuilder func() (*operation.Builder[T, R], error)) error {
	typ := reflect.TypeFor[T]()
	d, ok := operation.DefaultRegistry().Get(typ)
	if !ok {
		return fmt.Errorf("%w: %s", operation.ErrNotDeclared, typ)
	}

	r.RegisterActivityWithOptions(FromFields(newBuilder), activity.RegisterOptions{Name: d.Type})
	return nil
}
