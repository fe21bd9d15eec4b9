package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gituser-cli/gituser/internal/profile"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <username> <email> <alias>",
		Short: "Add a new identity profile",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, email, alias := args[0], args[1], args[2]

			st, err := loadStore()
			if err != nil {
				return err
			}

			existing := st.List()
			if err := profile.ValidateUsername(username, existing); err != nil {
				return err
			}
			if err := profile.ValidateEmail(email, existing); err != nil {
				return err
			}
			if err := profile.ValidateAlias(alias, existing); err != nil {
				return err
			}

			id := profile.Identity{Alias: alias, Name: username, Email: email}
			if err := st.Add(id); err != nil {
				return err
			}

			cmd.Printf("added profile %q (%s)\n", alias, id)

			return nil
		},
	}
}
