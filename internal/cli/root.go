// Package cli implements the kbsearch command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/config"
	"github.com/kailas-cloud/kbsearch/internal/logger"
	"github.com/kailas-cloud/kbsearch/internal/view"
	kbsearch "github.com/kailas-cloud/kbsearch/pkg/sdk"
)

// skipSetup marks commands that run without config or client.
const skipSetup = "kbsearch/skip-setup"

// app carries state shared by every command of one invocation.
type app struct {
	env     string
	cfgPath string
	baseURL string

	cfg    config.Config
	log    *zap.Logger
	client *kbsearch.Client
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "kbsearch",
		Short: "Search and manage a support knowledge base",
		Long: `kbsearch talks to the knowledge-base search API: upload documents,
run semantic searches with optional generated answers and manage the index.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: a.teardown,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.env, "env", config.GetEnv(), "environment: local, dev, prod, test")
	pf.StringVar(&a.cfgPath, "config", "", "config file (default config/<env>.yaml)")
	pf.StringVar(&a.baseURL, "base-url", "", "API server root, overrides the config file")

	root.AddCommand(
		a.uploadCmd(),
		a.searchCmd(),
		a.docsCmd(),
		a.statsCmd(),
		a.healthCmd(),
		versionCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), view.Error(kbsearch.ErrorMessage(err)))
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if _, ok := cmd.Annotations[skipSetup]; ok {
		return nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = logger.NewLogger(a.env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	policy, err := kbsearch.ParseFailurePolicy(cfg.Search.OnFailure)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	opts := []kbsearch.Option{
		kbsearch.WithBaseURL(cfg.API.BaseURL),
		kbsearch.WithTimeout(time.Duration(cfg.API.TimeoutSec) * time.Second),
		kbsearch.WithAPIKey(cfg.API.APIKey),
		kbsearch.WithFailurePolicy(policy),
		kbsearch.WithZapLogger(a.log),
	}
	if cfg.Search.LatestWins {
		opts = append(opts, kbsearch.WithLatestWins())
	}

	a.client, err = kbsearch.New(opts...)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	a.log.Debug("client ready",
		zap.String("env", a.env),
		zap.String("base_url", a.client.BaseURL()),
	)
	return nil
}

func (a *app) loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if a.cfgPath != "" {
		cfg, err = config.LoadFile(a.cfgPath)
	} else {
		cfg, err = config.Load(a.env)
	}
	if err != nil {
		return config.Config{}, err //nolint:wrapcheck // already descriptive
	}
	if a.baseURL != "" {
		cfg.API.BaseURL = a.baseURL
		if err := cfg.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("--base-url: %w", err)
		}
	}
	return cfg, nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) {
	if a.client != nil {
		a.client.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// errNotHealthy is returned by health when the API is not fully up.
var errNotHealthy = errors.New("api is not healthy")
