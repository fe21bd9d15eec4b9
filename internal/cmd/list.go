package cmd

import (
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern]",
		Short: "List stored identity profiles",
		Long: `List stored identity profiles in the order they were added. An optional
glob pattern (e.g. 'work*') restricts the listing to matching aliases. The
profile matching the currently configured identity is marked with *.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadStore()
			if err != nil {
				return err
			}

			ids := st.List()
			if len(args) == 1 {
				ids, err = st.Glob(args[0])
				if err != nil {
					return err
				}
			}

			if len(ids) == 0 {
				cmd.Println("no profiles found")

				return nil
			}

			return printProfiles(cmd, ids)
		},
	}
}
