package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wealthwise-dev/wealthwise/internal/categories"
	"github.com/wealthwise-dev/wealthwise/internal/config"
)

const configFile = "wealthwise.yaml"

func newInitCommand() *cobra.Command {
	var name string
	var statement string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new WealthWise workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, name, statement)
		},
	}

	def := config.Default()
	cmd.Flags().StringVar(&name, "name", def.User.Name, "statement owner's name")
	cmd.Flags().StringVar(&statement, "statement", def.Statement.Path, "statement file path")

	return cmd
}

func runInit(out io.Writer, dir, name, statement string) error {
	cfgPath := filepath.Join(dir, configFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	for _, d := range []string{"rules", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write wealthwise.yaml.
	cfg := config.Default()
	cfg.User.Name = name
	cfg.Statement.Path = statement
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// Write the default categorization rules.
	if err := categories.Save(filepath.Join(dir, cfg.Rules.Path), categories.DefaultRules()); err != nil {
		return err
	}

	// Write .env.example.
	envExample := cfg.LLM.APIKeyEnv + "=\n"
	if err := os.WriteFile(filepath.Join(dir, ".env.example"), []byte(envExample), 0o644); err != nil {
		return fmt.Errorf("writing .env.example: %w", err)
	}

	// Write .gitignore.
	gitignore := ".env\nlogs/\n"
	if err := writeIfMissing(filepath.Join(dir, ".gitignore"), gitignore); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write logs/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "logs", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	fmt.Fprintf(out, "Initialized WealthWise workspace at %s\n", dir)
	return nil
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
