package commands

import (
	"github.com/spf13/cobra"

	"github.com/wealthwise-dev/wealthwise/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultDeps())
}

func newRootCommand(d deps) *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "wealthwise",
		Short: "Ask questions about your bank statement",
		Long: `Loads a bank statement and answers questions about it with a language model.

Run without a subcommand to ask the built-in demonstration questions.`,
		Version: buildinfo.String(),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuestions(cmd.Context(), d, g, cmd.OutOrStdout(), cmd.ErrOrStderr(), DemoQuestions)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "wealthwise.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file with the API key")

	rootCmd.AddCommand(
		newAskCommand(d, g),
		newCategorizeCommand(d, g),
		newHistoryCommand(g),
		newInitCommand(),
	)

	return rootCmd
}
