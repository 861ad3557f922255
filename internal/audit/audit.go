// Package audit stamps creation and modification metadata on entities right
// before they are written to the store.
package audit

import (
	"context"
	"time"
)

// SystemActor is recorded when no authenticated caller is present.
const SystemActor = "System"

// Auditable is implemented by entities that carry audit fields.
type Auditable interface {
	MarkCreated(at time.Time, by string)
	MarkModified(at time.Time, by string)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant. Useful in tests and CLI replays.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// ActorAccessor resolves the name recorded as CreatedBy/UpdatedBy.
type ActorAccessor interface {
	Actor(ctx context.Context) string
}

type actorKey struct{}

// WithActor stores the authenticated username in ctx.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorKey{}, username)
}

// ActorFromContext returns the username stored by WithActor.
func ActorFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(actorKey{}).(string)
	return username, ok && username != ""
}

// ContextActor reads the actor from the request context and falls back to SystemActor.
type ContextActor struct{}

// Actor returns the authenticated username or SystemActor.
func (ContextActor) Actor(ctx context.Context) string {
	if username, ok := ActorFromContext(ctx); ok {
		return username
	}
	return SystemActor
}

// Stamper is the before-save hook shared by repositories.
type Stamper struct {
	clock Clock
	actor ActorAccessor
}

// NewStamper creates a Stamper. Nil arguments fall back to SystemClock and ContextActor.
func NewStamper(clock Clock, actor ActorAccessor) *Stamper {
	if clock == nil {
		clock = SystemClock{}
	}
	if actor == nil {
		actor = ContextActor{}
	}
	return &Stamper{clock: clock, actor: actor}
}

// Created stamps an entity about to be inserted.
func (s *Stamper) Created(ctx context.Context, entity Auditable) {
	entity.MarkCreated(s.clock.Now(), s.actor.Actor(ctx))
}

// Modified stamps an entity about to be updated.
func (s *Stamper) Modified(ctx context.Context, entity Auditable) {
	entity.MarkModified(s.clock.Now(), s.actor.Actor(ctx))
}
