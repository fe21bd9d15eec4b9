// Package cmd implements the gituser command tree. Each command is a single
// load, act, save cycle over the profile store, optionally touching the
// global git config through the applier.
package cmd

import (
	"fmt"
	"os"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/spf13/cobra"

	"github.com/gituser-cli/gituser/internal/gitconfig"
	"github.com/gituser-cli/gituser/internal/profile"
)

var storePath string

// newApplier is swapped out by tests to avoid touching the real git config.
var newApplier = func() gitconfig.Applier {
	return gitconfig.NewGlobalApplier()
}

var rootCmd = &cobra.Command{
	Use:   "gituser",
	Short: "Manage and switch between named Git identities",
	Long: `gituser keeps a set of named Git identity profiles, each mapping a short
alias to a git username and email, and switches the active identity in the
global Git configuration. Profiles are stored as a JSON document in the
user's config directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// bare invocation: list the profiles, or show help while the
		// store is still empty
		st, err := loadStore()
		if err != nil {
			return err
		}
		if st.Len() == 0 {
			return cmd.Help()
		}

		return printProfiles(cmd, st.List())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "path to the profile store (default: "+profile.DefaultPath()+")")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newSwitchCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newCurrentCmd())
	rootCmd.AddCommand(newListCmd())
}

// Execute runs the command tree. Any propagated error is reported on stderr
// and terminates the process non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadStore() (*profile.Store, error) {
	path := storePath
	if path == "" {
		path = profile.DefaultPath()
	}

	return profile.Load(path)
}

// printProfiles renders profiles in insertion order, marking the one whose
// identity is currently configured.
func printProfiles(cmd *cobra.Command, ids []profile.Identity) error {
	name, email, err := newApplier().Current()
	if err != nil {
		// the listing still works without a readable git config
		debug.Log("failed to read current identity: %s", err)
		name, email = "", ""
	}

	for _, id := range ids {
		marker := " "
		if name != "" && id.Name == name && id.Email == email {
			marker = "*"
		}
		cmd.Printf("%s %-16s %s\n", marker, id.Alias, id)
	}

	return nil
}

func completeAliases(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	st, err := loadStore()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return st.Aliases(), cobra.ShellCompDirectiveNoFileComp
}
