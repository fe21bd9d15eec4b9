package cmd

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <alias>",
		Short:             "Delete an identity profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAliases,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadStore()
			if err != nil {
				return err
			}

			if err := st.Delete(args[0]); err != nil {
				return err
			}

			cmd.Printf("deleted profile %q\n", args[0])

			return nil
		},
	}
}
