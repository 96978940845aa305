package pg

import "github.com/nforum-dev/nforum/shared/domain"

var categoryMapping = mapping[domain.Category]{
	entity:  "category",
	columns: []string{"id", "name", "sort_order", "description"},
	fields: func(c *domain.Category) []any {
		return []any{&c.Id, &c.Name, &c.SortOrder, &c.Description}
	},
}

var forumMapping = mapping[domain.Forum]{
	entity:  "forum",
	columns: []string{"id", "name", "sort_order", "description", "category_id", "parent_forum_id", "level"},
	fields: func(f *domain.Forum) []any {
		return []any{&f.Id, &f.Name, &f.SortOrder, &f.Description, &f.CategoryId, &f.ParentForumId, &f.Level}
	},
}

var topicMapping = mapping[domain.Topic]{
	entity:  "topic",
	columns: []string{"id", "subject", "state", "type", "custom_data", "forum_id", "message_id", "latest_reply_id", "created_at"},
	fields: func(t *domain.Topic) []any {
		return []any{&t.Id, &t.Subject, &t.State, &t.Type, &t.CustomData, &t.ForumId, &t.MessageId, &t.LatestReplyId, &t.CreatedAt}
	},
}

var replyMapping = mapping[domain.Reply]{
	entity:  "reply",
	columns: []string{"id", "topic_id", "message_id", "state", "custom_data", "created_at"},
	fields: func(r *domain.Reply) []any {
		return []any{&r.Id, &r.TopicId, &r.MessageId, &r.State, &r.CustomData, &r.CreatedAt}
	},
}

var userMapping = mapping[domain.ForumUser]{
	entity:  "forumuser",
	columns: []string{"id", "external_id", "username", "fullname", "email_address", "use_fullname", "culture", "time_zone", "deleted"},
	fields: func(u *domain.ForumUser) []any {
		return []any{&u.Id, &u.ExternalId, &u.Username, &u.Fullname, &u.EmailAddress, &u.UseFullname, &u.Culture, &u.TimeZone, &u.Deleted}
	},
}
