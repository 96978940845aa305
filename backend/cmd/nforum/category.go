package main

import (
	"os"

	"github.com/nforum-dev/nforum/backend/internal/render"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/spf13/cobra"
)

func (a *app) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "category", Short: "Manage categories"}

	var create domain.CategoryCreationData
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := a.services.Categories.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			return printJSON(category)
		},
	}
	createCmd.Flags().StringVar(&create.Name, "name", "", "category name")
	createCmd.Flags().StringVar(&create.Description, "description", "", "category description")
	createCmd.Flags().IntVar(&create.SortOrder, "sort-order", 0, "display position, ascending")

	var update domain.CategoryUpdateData
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace name, description and sort order of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update.Id = args[0]
			category, err := a.services.Categories.Update(cmd.Context(), update)
			if err != nil {
				return err
			}
			return printJSON(category)
		},
	}
	updateCmd.Flags().StringVar(&update.Name, "name", "", "category name")
	updateCmd.Flags().StringVar(&update.Description, "description", "", "category description")
	updateCmd.Flags().IntVar(&update.SortOrder, "sort-order", 0, "display position, ascending")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category (its forums are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.services.Categories.Delete(cmd.Context(), args[0])
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := a.services.Categories.FindById(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(category)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories by sort order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := a.services.Categories.FindAll(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(categories)
		},
	}

	var text bool
	treeCmd := &cobra.Command{
		Use:   "tree [id]",
		Short: "Show one category, or all, with two levels of forums",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				trees, err := a.services.Categories.FindAllTrees(cmd.Context())
				if err != nil {
					return err
				}
				if !text {
					return printJSON(trees)
				}
				for _, tree := range trees {
					if err := render.CategoryTree(os.Stdout, tree); err != nil {
						return err
					}
				}
				return nil
			}
			tree, err := a.services.Categories.FindTree(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if text {
				return render.CategoryTree(os.Stdout, tree)
			}
			return printJSON(tree)
		},
	}
	treeCmd.Flags().BoolVar(&text, "text", false, "print an indented outline instead of JSON")

	cmd.AddCommand(createCmd, updateCmd, deleteCmd, getCmd, listCmd, treeCmd)
	return cmd
}
