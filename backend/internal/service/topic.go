package service

import (
	"context"
	"time"

	"github.com/nforum-dev/nforum/backend/internal/datastore"
	"github.com/nforum-dev/nforum/backend/internal/events"
	"github.com/nforum-dev/nforum/backend/internal/permission"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/nforum-dev/nforum/shared/validation"
)

// to mock service in tests
type TopicService interface {
	Create(ctx context.Context, data domain.TopicCreationData) (domain.Topic, error)
	Update(ctx context.Context, data domain.TopicUpdateData) (domain.Topic, error)
	Delete(ctx context.Context, id string) error
	FindById(ctx context.Context, id string) (domain.Topic, error)
	FindAll(ctx context.Context) ([]domain.Topic, error)
	FindByForum(ctx context.Context, forumId string) ([]domain.Topic, error)
	Reply(ctx context.Context, data domain.ReplyCreationData) (domain.Reply, error)
	DeleteReply(ctx context.Context, id string) error
	FindThread(ctx context.Context, id string) (domain.TopicThread, error)
}

type Topic struct {
	base
}

func NewTopic(runner UnitOfWorkRunner, c Collaborators) TopicService {
	return &Topic{newBase("topic", runner, c)}
}

func (s *Topic) Create(ctx context.Context, data domain.TopicCreationData) (topic domain.Topic, err error) {
	start := time.Now()
	defer func() { s.observe("create", start, err) }()

	if err := validation.Struct(data); err != nil {
		return domain.Topic{}, err
	}
	s.log.Debug("create called", "forum_id", data.ForumId, "message_id", data.MessageId, "subject", data.Subject, "type", data.Type)
	if err := s.authorize(ctx, permission.CreateTopic); err != nil {
		return domain.Topic{}, err
	}

	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		topic, err = ds.CreateTopic(ctx, data)
		return err
	})
	if err != nil {
		return domain.Topic{}, err
	}
	s.log.Info("topic created", "id", topic.Id, "forum_id", topic.ForumId)
	s.publish(ctx, events.TopicCreated{Topic: topic})
	return topic, nil
}

func (s *Topic) Update(ctx context.Context, data domain.TopicUpdateData) (topic domain.Topic, err error) {
	start := time.Now()
	defer func() { s.observe("update", start, err) }()

	if err := validation.Struct(data); err != nil {
		return domain.Topic{}, err
	}
	s.log.Debug("update called", "id", data.Id, "subject", data.Subject, "state", data.State, "type", data.Type)
	if err := s.authorize(ctx, permission.UpdateTopic); err != nil {
		return domain.Topic{}, err
	}

	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		topic, err = ds.UpdateTopic(ctx, data)
		return err
	})
	if err != nil {
		return domain.Topic{}, err
	}
	s.log.Info("topic updated", "id", topic.Id)
	s.publish(ctx, events.TopicUpdated{Topic: topic})
	return topic, nil
}

// Delete removes the topic only; its replies are left in place.
func (s *Topic) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe("delete", start, err) }()

	if err := validation.NotBlank("Id", id); err != nil {
		return err
	}
	s.log.Debug("delete called", "id", id)
	if err := s.authorize(ctx, permission.DeleteTopic); err != nil {
		return err
	}

	var topicId domain.Id
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		topic, err := ds.FindTopicById(ctx, id)
		if err != nil {
			return err
		}
		topicId = topic.Id
		return ds.DeleteTopic(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("topic deleted", "id", topicId)
	s.publish(ctx, events.TopicDeleted{Id: topicId})
	return nil
}

func (s *Topic) FindById(ctx context.Context, id string) (topic domain.Topic, err error) {
	start := time.Now()
	defer func() { s.observe("find_by_id", start, err) }()

	if err := validation.NotBlank("Id", id); err != nil {
		return domain.Topic{}, err
	}
	s.log.Debug("find by id called", "id", id)
	if err := s.authorize(ctx, permission.Read); err != nil {
		return domain.Topic{}, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		topic, err = ds.FindTopicById(ctx, id)
		return err
	})
	return topic, err
}

func (s *Topic) FindAll(ctx context.Context) (topics []domain.Topic, err error) {
	start := time.Now()
	defer func() { s.observe("find_all", start, err) }()

	s.log.Debug("find all called")
	if err := s.authorize(ctx, permission.Read); err != nil {
		return nil, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		topics, err = ds.FindAllTopics(ctx)
		return err
	})
	return topics, err
}

func (s *Topic) FindByForum(ctx context.Context, forumId string) (topics []domain.Topic, err error) {
	start := time.Now()
	defer func() { s.observe("find_by_forum", start, err) }()

	if err := validation.NotBlank("ForumId", forumId); err != nil {
		return nil, err
	}
	s.log.Debug("find by forum called", "forum_id", forumId)
	if err := s.authorize(ctx, permission.Read); err != nil {
		return nil, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		topics, err = ds.FindTopicsByForum(ctx, forumId)
		return err
	})
	return topics, err
}

// Reply adds a reply and makes it the topic's latest reply in one transaction.
func (s *Topic) Reply(ctx context.Context, data domain.ReplyCreationData) (reply domain.Reply, err error) {
	start := time.Now()
	defer func() { s.observe("reply", start, err) }()

	if err := validation.Struct(data); err != nil {
		return domain.Reply{}, err
	}
	s.log.Debug("reply called", "topic_id", data.TopicId, "message_id", data.MessageId)
	if err := s.authorize(ctx, permission.CreateReply); err != nil {
		return domain.Reply{}, err
	}

	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		reply, err = ds.CreateReply(ctx, data)
		return err
	})
	if err != nil {
		return domain.Reply{}, err
	}
	s.log.Info("reply created", "id", reply.Id, "topic_id", reply.TopicId)
	s.publish(ctx, events.ReplyCreated{Reply: reply})
	return reply, nil
}

func (s *Topic) DeleteReply(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.observe("delete_reply", start, err) }()

	if err := validation.NotBlank("Id", id); err != nil {
		return err
	}
	s.log.Debug("delete reply called", "id", id)
	if err := s.authorize(ctx, permission.DeleteReply); err != nil {
		return err
	}

	var reply domain.Reply
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		reply, err = ds.DeleteReply(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info("reply deleted", "id", reply.Id, "topic_id", reply.TopicId)
	s.publish(ctx, events.ReplyDeleted{Reply: reply})
	return nil
}

// FindThread returns the topic with its replies, oldest first.
func (s *Topic) FindThread(ctx context.Context, id string) (thread domain.TopicThread, err error) {
	start := time.Now()
	defer func() { s.observe("find_thread", start, err) }()

	if err := validation.NotBlank("Id", id); err != nil {
		return domain.TopicThread{}, err
	}
	s.log.Debug("find thread called", "id", id)
	if err := s.authorize(ctx, permission.Read); err != nil {
		return domain.TopicThread{}, err
	}
	err = s.runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
		var err error
		thread, err = ds.FindTopicThread(ctx, id)
		return err
	})
	return thread, err
}
