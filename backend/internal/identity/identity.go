// Package identity resolves the acting ForumUser for service calls.
package identity

import (
	"context"

	"github.com/nforum-dev/nforum/shared/domain"
)

type ctxKey struct{}

// WithUser returns a context carrying user as the acting user.
func WithUser(ctx context.Context, user *domain.ForumUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// FromContext returns the user stored by WithUser, or nil.
func FromContext(ctx context.Context) *domain.ForumUser {
	user, _ := ctx.Value(ctxKey{}).(*domain.ForumUser)
	return user
}

// ContextUserProvider reads the acting user from the call's context.
type ContextUserProvider struct{}

func (ContextUserProvider) CurrentUser(ctx context.Context) *domain.ForumUser {
	return FromContext(ctx)
}

// StaticUserProvider always reports the same user. A nil User means anonymous.
type StaticUserProvider struct {
	User *domain.ForumUser
}

func (p StaticUserProvider) CurrentUser(context.Context) *domain.ForumUser {
	return p.User
}
