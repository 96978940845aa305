package datastore

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/nforum-dev/nforum/shared/validation"
)

func sortTopics(topics []domain.Topic) {
	slices.SortStableFunc(topics, func(a, b domain.Topic) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

func sortReplies(replies []domain.Reply) {
	slices.SortStableFunc(replies, func(a, b domain.Reply) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.Id.String(), b.Id.String()))
	})
}

// CreateTopic opens a new topic in an existing forum.
func (d *DataStore) CreateTopic(ctx context.Context, data domain.TopicCreationData) (domain.Topic, error) {
	if err := validation.Struct(data); err != nil {
		return domain.Topic{}, err
	}
	forumId, err := validation.ParseId("ForumId", data.ForumId)
	if err != nil {
		return domain.Topic{}, err
	}
	messageId, err := validation.ParseId("MessageId", data.MessageId)
	if err != nil {
		return domain.Topic{}, err
	}
	if _, err := d.repos.Forums.FindById(ctx, forumId); err != nil {
		return domain.Topic{}, notFound(err, EntityForum, forumId)
	}
	topic, err := d.repos.Topics.Create(ctx, domain.Topic{
		Subject:    data.Subject,
		State:      domain.TopicOpen,
		Type:       data.Type,
		CustomData: data.CustomData,
		ForumId:    forumId,
		MessageId:  messageId,
		CreatedAt:  d.timestamp(),
	})
	if err != nil {
		return domain.Topic{}, fmt.Errorf("failed to create topic: %w", err)
	}
	return topic, nil
}

func (d *DataStore) UpdateTopic(ctx context.Context, data domain.TopicUpdateData) (domain.Topic, error) {
	if err := validation.Struct(data); err != nil {
		return domain.Topic{}, err
	}
	id, err := validation.ParseId("Id", data.Id)
	if err != nil {
		return domain.Topic{}, err
	}
	topic, err := d.repos.Topics.FindById(ctx, id)
	if err != nil {
		return domain.Topic{}, notFound(err, EntityTopic, id)
	}
	topic.Subject = data.Subject
	topic.State = data.State
	topic.Type = data.Type
	topic.CustomData = data.CustomData
	updated, err := d.repos.Topics.Update(ctx, topic)
	if err != nil {
		return domain.Topic{}, notFound(err, EntityTopic, id)
	}
	return updated, nil
}

// DeleteTopic removes the topic row only. Its replies stay behind.
func (d *DataStore) DeleteTopic(ctx context.Context, rawId string) error {
	id, err := validation.ParseId("Id", rawId)
	if err != nil {
		return err
	}
	return notFound(d.repos.Topics.DeleteById(ctx, id), EntityTopic, id)
}

func (d *DataStore) FindTopicById(ctx context.Context, rawId string) (domain.Topic, error) {
	id, err := validation.ParseId("Id", rawId)
	if err != nil {
		return domain.Topic{}, err
	}
	topic, err := d.repos.Topics.FindById(ctx, id)
	if err != nil {
		return domain.Topic{}, notFound(err, EntityTopic, id)
	}
	return topic, nil
}

// FindAllTopics returns every topic, oldest first.
func (d *DataStore) FindAllTopics(ctx context.Context) ([]domain.Topic, error) {
	topics, err := d.repos.Topics.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	sortTopics(topics)
	return topics, nil
}

// FindTopicsByForum returns the topics of an existing forum, oldest first.
func (d *DataStore) FindTopicsByForum(ctx context.Context, rawForumId string) ([]domain.Topic, error) {
	forumId, err := validation.ParseId("ForumId", rawForumId)
	if err != nil {
		return nil, err
	}
	if _, err := d.repos.Forums.FindById(ctx, forumId); err != nil {
		return nil, notFound(err, EntityForum, forumId)
	}
	all, err := d.FindAllTopics(ctx)
	if err != nil {
		return nil, err
	}
	topics := make([]domain.Topic, 0, len(all))
	for _, t := range all {
		if t.ForumId == forumId {
			topics = append(topics, t)
		}
	}
	return topics, nil
}

// CreateReply adds a reply and points the topic's LatestReplyId at it.
// Both writes share the caller's Unit of Work.
func (d *DataStore) CreateReply(ctx context.Context, data domain.ReplyCreationData) (domain.Reply, error) {
	if err := validation.Struct(data); err != nil {
		return domain.Reply{}, err
	}
	topicId, err := validation.ParseId("TopicId", data.TopicId)
	if err != nil {
		return domain.Reply{}, err
	}
	messageId, err := validation.ParseId("MessageId", data.MessageId)
	if err != nil {
		return domain.Reply{}, err
	}
	topic, err := d.repos.Topics.FindById(ctx, topicId)
	if err != nil {
		return domain.Reply{}, notFound(err, EntityTopic, topicId)
	}
	reply, err := d.repos.Replies.Create(ctx, domain.Reply{
		TopicId:    topicId,
		MessageId:  messageId,
		State:      domain.ReplyVisible,
		CustomData: data.CustomData,
		CreatedAt:  d.timestamp(),
	})
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to create reply: %w", err)
	}
	topic.LatestReplyId = domain.SomeId(reply.Id)
	if _, err := d.repos.Topics.Update(ctx, topic); err != nil {
		return domain.Reply{}, fmt.Errorf("failed to move latest reply of topic %s: %w", topicId, err)
	}
	return reply, nil
}

// DeleteReply removes the reply only. A topic still naming it as latest
// reply keeps the id; FindTopicThread resolves it to no latest reply.
func (d *DataStore) DeleteReply(ctx context.Context, rawId string) (domain.Reply, error) {
	id, err := validation.ParseId("Id", rawId)
	if err != nil {
		return domain.Reply{}, err
	}
	reply, err := d.repos.Replies.FindById(ctx, id)
	if err != nil {
		return domain.Reply{}, notFound(err, EntityReply, id)
	}
	if err := d.repos.Replies.DeleteById(ctx, id); err != nil {
		return domain.Reply{}, notFound(err, EntityReply, id)
	}
	return reply, nil
}

// FindTopicThread returns a topic with its replies, oldest first.
func (d *DataStore) FindTopicThread(ctx context.Context, rawId string) (domain.TopicThread, error) {
	topic, err := d.FindTopicById(ctx, rawId)
	if err != nil {
		return domain.TopicThread{}, err
	}
	all, err := d.repos.Replies.FindAll(ctx)
	if err != nil {
		return domain.TopicThread{}, fmt.Errorf("failed to list replies: %w", err)
	}
	thread := domain.TopicThread{Topic: topic, Replies: []domain.Reply{}}
	for _, r := range all {
		if r.TopicId == topic.Id {
			thread.Replies = append(thread.Replies, r)
		}
	}
	sortReplies(thread.Replies)
	if topic.LatestReplyId.Valid {
		for i := range thread.Replies {
			if thread.Replies[i].Id == topic.LatestReplyId.UUID {
				latest := thread.Replies[i]
				thread.LatestReply = &latest
				break
			}
		}
	}
	return thread, nil
}
