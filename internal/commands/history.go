package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/wealthwise-dev/wealthwise/internal/dispatch"
	"github.com/wealthwise-dev/wealthwise/internal/querylog"
)

func newHistoryCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show previously asked questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(g, cmd.OutOrStdout())
		},
	}
}

func runHistory(g *globalFlags, out io.Writer) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	if cfg.Log.QueryLog == "" {
		fmt.Fprintln(out, "Query log is disabled.")
		return nil
	}

	entries, err := querylog.Read(cfg.Log.QueryLog)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No questions recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Timestamp.Local().Format(time.DateTime), e.Question, e.Answer})
	}
	fmt.Fprintln(out, dispatch.Table([]string{"Asked", "Question", "Answer"}, rows))
	return nil
}
