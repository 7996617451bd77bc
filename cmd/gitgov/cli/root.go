package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

const gettingStarted = `

Getting Started:
  Run 'gitgov init --actor human:you' inside a git repository to scaffold
  .gitgov/ and register your actor record, then 'gitgov sync push' to
  publish the state branch for the first time.

`

const backendHelp = `
Environment Variables:
  GITGOV_BACKEND           "github" selects the GitHub REST API backend;
                           anything else (or unset) uses the local git backend.
  GITGOV_GITHUB_REPO       owner/repo, required when GITGOV_BACKEND=github.
  GITGOV_GITHUB_TOKEN      token used to authenticate the GitHub backend.
  GITGOV_TELEMETRY_OPTOUT  set to any value to disable telemetry regardless
                           of .gitgov/config.json.
`

// Version is overridden at build time via -ldflags.
var Version = "dev"

// NewRootCmd assembles the gitgov command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitgov",
		Short: "Distributed governance state synchronized over a dedicated git branch",
		Long:  "gitgov synchronizes signed governance records under .gitgov/ across clones via a rebase-reconciled state branch." + gettingStarted + backendHelp,
		// main.go handles error printing so it isn't duplicated here.
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gitgov %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
