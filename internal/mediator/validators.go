package mediator

import (
	"context"
	"reflect"
	"sync"
)

type validatorFunc func(ctx context.Context, req any) error

// Validators maps request types to the validators that run before their handler.
type Validators struct {
	mu         sync.RWMutex
	validators map[reflect.Type][]validatorFunc
}

// NewValidators creates an empty registry.
func NewValidators() *Validators {
	return &Validators{validators: make(map[reflect.Type][]validatorFunc)}
}

// RegisterValidator adds fn to the validators of Req. A request type may have several.
func RegisterValidator[Req any](v *Validators, fn func(ctx context.Context, req Req) error) {
	key := reflect.TypeFor[Req]()

	v.mu.Lock()
	defer v.mu.Unlock()

	v.validators[key] = append(v.validators[key], func(ctx context.Context, req any) error {
		return fn(ctx, req.(Req))
	})
}

func (v *Validators) lookup(req any) []validatorFunc {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.validators[reflect.TypeOf(req)]
}
