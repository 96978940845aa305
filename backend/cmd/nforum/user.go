package main

import (
	"github.com/nforum-dev/nforum/backend/internal/datastore"
	"github.com/nforum-dev/nforum/shared/domain"
	"github.com/spf13/cobra"
)

func (a *app) userCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Manage forum users"}

	var data domain.ForumUserCreationData
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a forum user and print a token acting as that user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if data.ExternalId == "" {
				data.ExternalId = data.Username
			}
			var user domain.ForumUser
			err := a.deps.Runner.InTransaction(ctx, func(ds *datastore.DataStore) error {
				var err error
				user, err = ds.CreateForumUser(ctx, data)
				return err
			})
			if err != nil {
				return err
			}
			token, err := a.deps.Tokens.NewToken(user)
			if err != nil {
				return err
			}
			return printJSON(struct {
				User  domain.ForumUser
				Token string
			}{user, token})
		},
	}
	add.Flags().StringVar(&data.Username, "username", "", "user name (required)")
	add.Flags().StringVar(&data.ExternalId, "external-id", "", "id at the identity provider (defaults to username)")
	add.Flags().StringVar(&data.Fullname, "fullname", "", "full name")
	add.Flags().StringVar(&data.EmailAddress, "email", "", "email address")
	add.Flags().BoolVar(&data.UseFullname, "use-fullname", false, "display the full name instead of the user name")
	add.Flags().StringVar(&data.Culture, "culture", "", "culture, e.g. en-GB")
	add.Flags().StringVar(&data.TimeZone, "time-zone", "", "time zone, e.g. Europe/London")
	_ = add.MarkFlagRequired("username")

	cmd.AddCommand(add)
	return cmd
}
