package cmd

import (
	"github.com/spf13/cobra"
)

func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "switch <alias>",
		Short:             "Switch the active Git identity to the given profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeAliases,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadStore()
			if err != nil {
				return err
			}

			id, err := st.Find(args[0])
			if err != nil {
				return err
			}

			if err := newApplier().Apply(id.Name, id.Email); err != nil {
				return err
			}

			cmd.Printf("switched to %q (%s)\n", id.Alias, id)

			return nil
		},
	}
}
