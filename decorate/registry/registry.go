package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tempokit/function-decorators-go/decorate"
)

// ErrEmptyDecoratorName is returned when a factory is registered under an empty name.
var ErrEmptyDecoratorName = errors.New("empty decorator name supplied")

// ErrInvalidFactoryArgument is returned when decoration-by-name is requested
// with arguments the named factory cannot interpret.
var ErrInvalidFactoryArgument = errors.New("invalid decorator factory argument")

// Factory instantiates a fresh Decorator from loosely typed arguments. Every
// call must produce a new instance with fresh private state, one per
// decoration site.
type Factory func(args ...any) (decorate.Decorator, error)

// Registry maps names to decorator factories. The zero value is not usable,
// construct instances via New or Builtin.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Add stores a factory under the given name. Registering an existing name
// overwrites the previous factory, last write wins.
func (r *Registry) Add(name string, factory Factory) error {
	if name == "" {
		return ErrEmptyDecoratorName
	}

	if factory == nil {
		return decorate.ErrNilFactory
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[name] = factory

	return nil
}

// Factory looks up the factory registered under the given name.
func (r *Registry) Factory(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, errors.Join(decorate.ErrUnknownDecorator, fmt.Errorf("name: %q", name))
	}

	return factory, nil
}

// Names returns the names of all registered factories, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	return names
}

// Decorate looks up the factory under the given name, instantiates a fresh
// decorator from the arguments, and binds it to the base callable. It behaves
// exactly like decorate.Decorate with a directly constructed decorator.
func (r *Registry) Decorate(base decorate.Callable, name string, args ...any) (decorate.Callable, error) {
	if base == nil {
		return nil, decorate.ErrNilCallable
	}

	factory, err := r.Factory(name)
	if err != nil {
		return nil, err
	}

	decorator, err := factory(args...)
	if err != nil {
		return nil, err
	}

	return decorate.Decorate(base, decorator), nil
}
