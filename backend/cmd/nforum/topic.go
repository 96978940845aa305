package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/nforum-dev/nforum/backend/internal/render"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/spf13/cobra"
)

func (a *app) topicCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "topic", Short: "Manage topics and replies"}

	var create domain.TopicCreationData
	var createType string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a topic in a forum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := domain.ParseTopicType(createType)
			if err != nil {
				return err
			}
			create.Type = typ
			if create.MessageId == "" {
				create.MessageId = uuid.NewString()
			}
			topic, err := a.services.Topics.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return printJSON(topic)
		},
	}
	createCmd.Flags().StringVar(&create.ForumId, "forum", "", "owning forum id")
	createCmd.Flags().StringVar(&create.Subject, "subject", "", "topic subject")
	createCmd.Flags().StringVar(&create.MessageId, "message", "", "id of the opening message (generated when empty)")
	createCmd.Flags().StringVar(&create.CustomData, "custom-data", "", "opaque data stored with the topic")
	createCmd.Flags().StringVar(&createType, "type", domain.TopicRegular.String(), "regular, sticky or announcement")

	var update domain.TopicUpdateData
	var updateState, updateType string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace subject, state, type and custom data of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := domain.ParseTopicState(updateState)
			if err != nil {
				return err
			}
			typ, err := domain.ParseTopicType(updateType)
			if err != nil {
				return err
			}
			update.Id, update.State, update.Type = args[0], state, typ
			topic, err := a.services.Topics.Update(cmd.Context(), update)
			if err != nil {
				return err
			}
			return printJSON(topic)
		},
	}
	updateCmd.Flags().StringVar(&update.Subject, "subject", "", "topic subject")
	updateCmd.Flags().StringVar(&update.CustomData, "custom-data", "", "opaque data stored with the topic")
	updateCmd.Flags().StringVar(&updateState, "state", domain.TopicOpen.String(), "open, locked, moved or deleted")
	updateCmd.Flags().StringVar(&updateType, "type", domain.TopicRegular.String(), "regular, sticky or announcement")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a topic (its replies are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.services.Topics.Delete(cmd.Context(), args[0])
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := a.services.Topics.FindById(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(topic)
		},
	}

	var listForum string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List topics, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var topics []domain.Topic
			var err error
			if listForum != "" {
				topics, err = a.services.Topics.FindByForum(cmd.Context(), listForum)
			} else {
				topics, err = a.services.Topics.FindAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printJSON(topics)
		},
	}
	listCmd.Flags().StringVar(&listForum, "forum", "", "only topics of this forum")

	var reply domain.ReplyCreationData
	replyCmd := &cobra.Command{
		Use:   "reply <topic-id>",
		Short: "Add a reply to a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply.TopicId = args[0]
			if reply.MessageId == "" {
				reply.MessageId = uuid.NewString()
			}
			created, err := a.services.Topics.Reply(cmd.Context(), reply)
			if err != nil {
				return err
			}
			return printJSON(created)
		},
	}
	replyCmd.Flags().StringVar(&reply.MessageId, "message", "", "id of the reply message (generated when empty)")
	replyCmd.Flags().StringVar(&reply.CustomData, "custom-data", "", "opaque data stored with the reply")

	unreplyCmd := &cobra.Command{
		Use:   "unreply <reply-id>",
		Short: "Delete a reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.services.Topics.DeleteReply(cmd.Context(), args[0])
		},
	}

	var text bool
	threadCmd := &cobra.Command{
		Use:   "thread <id>",
		Short: "Show a topic with its replies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			thread, err := a.services.Topics.FindThread(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if text {
				return render.Thread(os.Stdout, thread)
			}
			return printJSON(thread)
		},
	}
	threadCmd.Flags().BoolVar(&text, "text", false, "print a plain-text summary instead of JSON")

	cmd.AddCommand(createCmd, updateCmd, deleteCmd, getCmd, listCmd, replyCmd, unreplyCmd, threadCmd)
	return cmd
}
