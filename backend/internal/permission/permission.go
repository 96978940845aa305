// Package permission names the actions services check and provides the
// default evaluator.
package permission

import "github.com/nforum-dev/nforum/shared/domain"

type Action string

const (
	CreateCategory Action = "create category"
	UpdateCategory Action = "update category"
	DeleteCategory Action = "delete category"

	CreateForum    Action = "create forum"
	CreateSubForum Action = "create sub-forum"
	UpdateForum    Action = "update forum"
	DeleteForum    Action = "delete forum"

	CreateTopic Action = "create topic"
	UpdateTopic Action = "update topic"
	DeleteTopic Action = "delete topic"
	CreateReply Action = "create reply"
	DeleteReply Action = "delete reply"

	Read Action = "read"
)

// Mutates reports whether the action changes stored state.
func (a Action) Mutates() bool {
	return a != Read
}

// AuthenticatedOnly lets anybody read and requires a present, non-deleted
// user for everything else.
type AuthenticatedOnly struct{}

func (AuthenticatedOnly) Can(action Action, user *domain.ForumUser) bool {
	if !action.Mutates() {
		return true
	}
	return user != nil && !user.Deleted
}

// Func adapts a plain function to an evaluator.
type Func func(action Action, user *domain.ForumUser) bool

func (f Func) Can(action Action, user *domain.ForumUser) bool {
	return f(action, user)
}
