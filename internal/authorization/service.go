package authorization

import (
	"context"
	"errors"
)

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)

// Service answers whether an actor may perform an action on an object.
// Actors are either "system" or "user:<id>"; user roles come from the
// users table.
type Service interface {
	Authorize(ctx context.Context, actor string, object string, action string) error
}
