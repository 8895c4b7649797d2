package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAskCommand(d deps, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question about the statement",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			return runQuestions(cmd.Context(), d, g, cmd.OutOrStdout(), cmd.ErrOrStderr(), []string{q})
		},
	}
}
