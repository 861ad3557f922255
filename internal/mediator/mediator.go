// Package mediator dispatches commands and queries to their handlers through
// an ordered chain of pipeline behaviors.
package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Handler handles a single request type.
type Handler[Req, Res any] interface {
	Handle(ctx context.Context, req Req) (Res, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Handle calls f.
func (f HandlerFunc[Req, Res]) Handle(ctx context.Context, req Req) (Res, error) {
	return f(ctx, req)
}

// Unit is the result of requests that return nothing.
type Unit struct{}

// Next invokes the remainder of the pipeline.
type Next func(ctx context.Context) (any, error)

// Behavior wraps every dispatch. Behaviors run in registration order, the
// first one being the outermost.
type Behavior func(ctx context.Context, req any, next Next) (any, error)

type handlerFunc func(ctx context.Context, req any) (any, error)

// Mediator holds the request type to handler registry.
type Mediator struct {
	mu        sync.RWMutex
	handlers  map[reflect.Type]handlerFunc
	behaviors []Behavior
}

// New creates a Mediator with the given behaviors.
func New(behaviors ...Behavior) *Mediator {
	return &Mediator{
		handlers:  make(map[reflect.Type]handlerFunc),
		behaviors: behaviors,
	}
}

// Register binds h to requests of type Req. Registering a type twice panics.
func Register[Req, Res any](m *Mediator, h Handler[Req, Res]) {
	key := reflect.TypeFor[Req]()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.handlers[key]; exists {
		panic(fmt.Sprintf("mediator: handler already registered for %s", key))
	}
	m.handlers[key] = func(ctx context.Context, req any) (any, error) {
		return h.Handle(ctx, req.(Req))
	}
}

// Send dispatches req through the behaviors to its handler.
func Send[Req, Res any](ctx context.Context, m *Mediator, req Req) (Res, error) {
	var zero Res

	m.mu.RLock()
	handler, ok := m.handlers[reflect.TypeFor[Req]()]
	m.mu.RUnlock()
	if !ok {
		return zero, fmt.Errorf("mediator: no handler registered for %s", RequestName(req))
	}

	next := func(ctx context.Context) (any, error) {
		return handler(ctx, req)
	}
	for i := len(m.behaviors) - 1; i >= 0; i-- {
		behavior, inner := m.behaviors[i], next
		next = func(ctx context.Context) (any, error) {
			return behavior(ctx, req, inner)
		}
	}

	res, err := next(ctx)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	typed, ok := res.(Res)
	if !ok {
		return zero, fmt.Errorf("mediator: handler for %s returned %T", RequestName(req), res)
	}
	return typed, nil
}

// RequestName returns the type name of req, used for logs and metrics.
func RequestName(req any) string {
	t := reflect.TypeOf(req)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
