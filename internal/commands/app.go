package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/wealthwise-dev/wealthwise/internal/agent"
	"github.com/wealthwise-dev/wealthwise/internal/categories"
	"github.com/wealthwise-dev/wealthwise/internal/config"
	"github.com/wealthwise-dev/wealthwise/internal/dispatch"
	"github.com/wealthwise-dev/wealthwise/internal/importer"
	"github.com/wealthwise-dev/wealthwise/internal/llm"
	"github.com/wealthwise-dev/wealthwise/internal/model"
	"github.com/wealthwise-dev/wealthwise/internal/querylog"
)

// DemoQuestions are asked, in order, when wealthwise runs without a
// subcommand.
var DemoQuestions = []string{
	"What is the total salary credited?",
	"Calculate the total spending on 'Food & Dining'.",
	"Is there any transaction labeled as 'Rent' or 'Landlord'? Return Yes or No.",
}

// deps are the outside-world touch points of a run.
type deps struct {
	lookup    config.LookupFunc
	open      importer.OpenFunc
	newClient func(cfg *config.Config, apiKey string) llm.Client
}

func defaultDeps() deps {
	return deps{
		lookup: os.LookupEnv,
		open:   func(path string) (io.ReadCloser, error) { return os.Open(path) },
		newClient: func(cfg *config.Config, apiKey string) llm.Client {
			return llm.NewOpenAI(cfg.LLM.BaseURL, apiKey, cfg.LLM.Model, cfg.LLM.MaxResponseBytes)
		},
	}
}

// globalFlags are the persistent root flags.
type globalFlags struct {
	configPath string
	envFile    string
}

// loadConfig applies the env file and reads the configuration.
func loadConfig(g *globalFlags) (*config.Config, error) {
	if err := config.LoadEnvFile(g.envFile); err != nil {
		return nil, err
	}
	return config.Load(g.configPath)
}

func newLogger(w io.Writer, cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if cfg.Agent.Verbose && level > log.DebugLevel {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{Level: level, Prefix: "wealthwise"})
}

func loadStatement(d deps, cfg *config.Config) (*model.Table, error) {
	loader := &importer.Loader{Open: d.open, Registry: importer.DefaultRegistry(cfg.Statement.Sheet)}
	return loader.Load(cfg.Statement.Path)
}

// newDispatcher runs the three start-up stages: credential check, statement
// load, agent construction. The credential is checked before the statement
// is touched.
func newDispatcher(d deps, cfg *config.Config, out io.Writer, logger *log.Logger) (*dispatch.Dispatcher, error) {
	apiKey, err := config.Credential(d.lookup, cfg.LLM.APIKeyEnv)
	if err != nil {
		return nil, err
	}

	table, err := loadStatement(d, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded statement", "path", cfg.Statement.Path, "rows", table.Len())

	rules, err := categories.Load(cfg.Rules.Path)
	if err != nil {
		return nil, err
	}
	svc := categories.NewService(rules)

	client := d.newClient(cfg, apiKey)
	if m, ok := client.(interface{ Model() string }); ok {
		logger.Debug("using model", "model", m.Model())
	}

	df := agent.NewDataframe(table, client, svc,
		agent.WithLogger(logger),
		agent.WithMemory(cfg.Agent.Memory),
		agent.WithSampleRows(cfg.Agent.SampleRows),
	)

	opts := []dispatch.Option{dispatch.WithLogger(logger)}
	if cfg.Log.QueryLog != "" {
		opts = append(opts, dispatch.WithRecorder(querylog.NewRecorder(cfg.Log.QueryLog)))
	}
	return dispatch.New(df, categories.Lens(cfg.User.Name, svc.Rules()), out, opts...), nil
}

// runQuestions asks each question in turn, stopping at the first failure.
func runQuestions(ctx context.Context, d deps, g *globalFlags, out, errOut io.Writer, questions []string) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	logger := newLogger(errOut, cfg)

	disp, err := newDispatcher(d, cfg, out, logger)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if _, err := disp.Ask(ctx, q); err != nil {
			return fmt.Errorf("asking %q: %w", q, err)
		}
	}
	return nil
}
