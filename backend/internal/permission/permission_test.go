package permission

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/stretchr/testify/assert"
)

func TestAuthenticatedOnly(t *testing.T) {
	active := &domain.ForumUser{Id: uuid.New(), Username: "alice"}
	deleted := &domain.ForumUser{Id: uuid.New(), Username: "bob", Deleted: true}

	tests := []struct {
		name   string
		action Action
		user   *domain.ForumUser
		want   bool
	}{
		{"anonymous read", Read, nil, true},
		{"anonymous create", CreateCategory, nil, false},
		{"user create", CreateCategory, active, true},
		{"user delete forum", DeleteForum, active, true},
		{"deleted user update", UpdateForum, deleted, false},
		{"deleted user read", Read, deleted, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthenticatedOnly{}.Can(tt.action, tt.user))
		})
	}
}

func TestFunc(t *testing.T) {
	onlyReplies := Func(func(action Action, user *domain.ForumUser) bool {
		return action == CreateReply
	})
	assert.True(t, onlyReplies.Can(CreateReply, nil))
	assert.False(t, onlyReplies.Can(CreateTopic, nil))
}
