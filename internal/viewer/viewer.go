// Package viewer carries the optional identity of the caller. A nil *Viewer
// is a guest.
package viewer

import (
	"context"

	"github.com/google/uuid"
)

// Viewer is the authenticated caller as resolved by the auth collaborator.
type Viewer struct {
	ID       uuid.UUID
	Username string
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying v. A nil v leaves ctx unchanged.
func NewContext(ctx context.Context, v *Viewer) context.Context {
	if v == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, v)
}

// FromContext returns the viewer stored in ctx, or nil for a guest.
func FromContext(ctx context.Context) *Viewer {
	v, _ := ctx.Value(contextKey{}).(*Viewer)
	return v
}

// IDPtr returns the viewer's ID, or nil for a guest. Queries take this form so
// that a guest is passed to the store as NULL.
func (v *Viewer) IDPtr() *uuid.UUID {
	if v == nil {
		return nil
	}
	id := v.ID
	return &id
}

// IsGuest reports whether v is absent.
func (v *Viewer) IsGuest() bool {
	return v == nil
}

// Is reports whether v is the user with the given ID. Always false for a guest.
func (v *Viewer) Is(userID uuid.UUID) bool {
	return v != nil && v.ID == userID
}
