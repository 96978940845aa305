package main

import (
	"os"

	"github.com/nforum-dev/nforum/backend/internal/render"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/spf13/cobra"
)

func (a *app) forumCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "forum", Short: "Manage forums and sub-forums"}

	var create domain.ForumCreationData
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a top-level forum in a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			forum, err := a.services.Forums.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return printJSON(forum)
		},
	}
	createCmd.Flags().StringVar(&create.CategoryId, "category", "", "owning category id")
	createCmd.Flags().StringVar(&create.Name, "name", "", "forum name")
	createCmd.Flags().StringVar(&create.Description, "description", "", "forum description")
	createCmd.Flags().IntVar(&create.SortOrder, "sort-order", 0, "display position, ascending")

	var sub domain.SubForumCreationData
	subCmd := &cobra.Command{
		Use:   "sub",
		Short: "Create a sub-forum below an existing forum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			forum, err := a.services.Forums.CreateSubForum(cmd.Context(), sub)
			if err != nil {
				return err
			}
			return printJSON(forum)
		},
	}
	subCmd.Flags().StringVar(&sub.ParentForumId, "parent", "", "parent forum id")
	subCmd.Flags().StringVar(&sub.Name, "name", "", "forum name")
	subCmd.Flags().StringVar(&sub.Description, "description", "", "forum description")
	subCmd.Flags().IntVar(&sub.SortOrder, "sort-order", 0, "display position, ascending")

	var update domain.ForumUpdateData
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace name, description and sort order of a forum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update.Id = args[0]
			forum, err := a.services.Forums.Update(cmd.Context(), update)
			if err != nil {
				return err
			}
			return printJSON(forum)
		},
	}
	updateCmd.Flags().StringVar(&update.Name, "name", "", "forum name")
	updateCmd.Flags().StringVar(&update.Description, "description", "", "forum description")
	updateCmd.Flags().IntVar(&update.SortOrder, "sort-order", 0, "display position, ascending")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a forum (sub-forums and topics are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.services.Forums.Delete(cmd.Context(), args[0])
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one forum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forum, err := a.services.Forums.FindById(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(forum)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all forums by sort order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			forums, err := a.services.Forums.FindAll(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(forums)
		},
	}

	var text bool
	treeCmd := &cobra.Command{
		Use:   "tree <id>",
		Short: "Show a forum with its ancestors and two levels of sub-forums",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.services.Forums.FindTree(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if text {
				return render.ForumTree(os.Stdout, tree)
			}
			return printJSON(tree)
		},
	}
	treeCmd.Flags().BoolVar(&text, "text", false, "print an indented outline instead of JSON")

	cmd.AddCommand(createCmd, subCmd, updateCmd, deleteCmd, getCmd, listCmd, treeCmd)
	return cmd
}
