package composables

import (
	"context"
	"errors"

	"github.com/mozartiade/archive/modules/core/domain/aggregates/admin"
	"github.com/mozartiade/archive/modules/core/domain/aggregates/user"
	"github.com/mozartiade/archive/pkg/constants"
)

var (
	ErrNoAdmin = errors.New("no admin in context")
	ErrNoUser  = errors.New("no user in context")
)

func WithAdmin(ctx context.Context, a *admin.Admin) context.Context {
	return context.WithValue(ctx, constants.AdminKey, a)
}

// UseAdmin returns the authenticated back-office identity, set by the admin
// bearer middleware.
func UseAdmin(ctx context.Context) (*admin.Admin, error) {
	a, ok := ctx.Value(constants.AdminKey).(*admin.Admin)
	if !ok || a == nil {
		return nil, ErrNoAdmin
	}
	return a, nil
}

func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, constants.UserKey, u)
}

// UseUser returns the authenticated end user, set by the session middleware.
func UseUser(ctx context.Context) (*user.User, error) {
	u, ok := ctx.Value(constants.UserKey).(*user.User)
	if !ok || u == nil {
		return nil, ErrNoUser
	}
	return u, nil
}
