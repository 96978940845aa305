package main

import (
	"github.com/google/uuid"
	"github.com/nforum-dev/nforum/backend/internal/datastore"
	"github.com/nforum-dev/nforum/backend/internal/identity"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/spf13/cobra"
)

// demoCmd seeds a small tree as a fresh user and prints it. With
// storage: memory it is the only way to see anything, since nothing
// outlives the process.
func (a *app) demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed a sample category tree and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var user domain.ForumUser
			err := a.deps.Runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
				var err error
				user, err = ds.CreateForumUser(ctx, domain.ForumUserCreationData{ExternalId: "demo", Username: "demo"})
				return err
			})
			if err != nil {
				return err
			}
			s := a.deps.Services(identity.StaticUserProvider{User: &user})

			category, err := s.Categories.Create(ctx, domain.CategoryCreationData{Name: "With child forum", Description: "meh", SortOrder: 100})
			if err != nil {
				return err
			}
			forum, err := s.Forums.Create(ctx, domain.ForumCreationData{CategoryId: category.Id.String(), Name: "First one?", Description: "bla bla", SortOrder: 50})
			if err != nil {
				return err
			}
			sub, err := s.Forums.CreateSubForum(ctx, domain.SubForumCreationData{ParentForumId: forum.Id.String(), Name: "Sub-forum", SortOrder: 1})
			if err != nil {
				return err
			}
			topic, err := s.Topics.Create(ctx, domain.TopicCreationData{ForumId: sub.Id.String(), MessageId: uuid.NewString(), Subject: "Welcome"})
			if err != nil {
				return err
			}
			if _, err := s.Topics.Reply(ctx, domain.ReplyCreationData{TopicId: topic.Id.String(), MessageId: uuid.NewString()}); err != nil {
				return err
			}

			tree, err := s.Categories.FindTree(ctx, category.Id.String())
			if err != nil {
				return err
			}
			thread, err := s.Topics.FindThread(ctx, topic.Id.String())
			if err != nil {
				return err
			}
			return printJSON(struct {
				Tree   domain.CategoryTree
				Thread domain.TopicThread
			}{tree, thread})
		},
	}
}
