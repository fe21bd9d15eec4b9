package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the currently configured Git identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, email, err := newApplier().Current()
			if err != nil {
				return err
			}

			if name == "" && email == "" {
				cmd.Println("no git identity configured")

				return nil
			}

			line := fmt.Sprintf("%s <%s>", name, email)
			if st, err := loadStore(); err == nil {
				for _, id := range st.List() {
					if id.Name == name && id.Email == email {
						line += fmt.Sprintf(" (profile %q)", id.Alias)

						break
					}
				}
			}
			cmd.Println(line)

			return nil
		},
	}
}
