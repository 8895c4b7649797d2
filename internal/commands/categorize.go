package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wealthwise-dev/wealthwise/internal/categories"
	"github.com/wealthwise-dev/wealthwise/internal/dispatch"
)

func newCategorizeCommand(d deps, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "categorize",
		Short: "Show per-category totals using the local rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCategorize(d, g, cmd.OutOrStdout())
		},
	}
}

func runCategorize(d deps, g *globalFlags, out io.Writer) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	table, err := loadStatement(d, cfg)
	if err != nil {
		return err
	}
	rules, err := categories.Load(cfg.Rules.Path)
	if err != nil {
		return err
	}

	totals := categories.NewService(rules).Summarize(table)
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			string(t.Category),
			fmt.Sprint(t.Count),
			t.Withdrawal.StringFixed(2),
			t.Deposit.StringFixed(2),
		})
	}
	fmt.Fprintln(out, dispatch.Table([]string{"Category", "Transactions", "Withdrawal", "Deposit"}, rows))
	return nil
}
