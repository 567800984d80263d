package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"bottleneck-mcp/internal/config"
	"bottleneck-mcp/internal/logging"
	"bottleneck-mcp/internal/mcp"
	"bottleneck-mcp/internal/metrics"
	"bottleneck-mcp/internal/policy"
	"bottleneck-mcp/internal/tasklog"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	policyLoader *policy.Loader
)

var rootCmd = &cobra.Command{
	Use:   "bottleneck-mcp",
	Short: "Bottleneck-MCP is a workflow bottleneck analytics MCP Server",
	Long: `A specialized MCP Server that scores task logs for bottlenecks, detects anomalies,
projects trends, recommends improvements and simulates what-if scenarios.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		// Policy is hot-reloaded; tool calls always read the latest valid one.
		policyLoader = policy.NewLoader(cfg.PolicyFile)
		if _, err := policyLoader.Load(); err != nil {
			return err
		}
		if err := policyLoader.Watch(); err != nil {
			log.Warn().Err(err).Str("path", cfg.PolicyFile).Msg("Policy hot-reload disabled")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Bottleneck-MCP starting")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if policyLoader != nil {
			return policyLoader.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		return newServer().Run(ctx)
	},
}

// newServer wires the MCP server and restores persisted datasets.
func newServer() *mcp.Server {
	store := tasklog.NewStore()
	n, err := store.LoadDir(cfg.CacheDir)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.CacheDir).Msg("Could not restore datasets")
	}

	recorder := metrics.NewRecorder()
	recorder.SetDatasets(n)
	policyLoader.OnChange(func(p policy.Policy) {
		recorder.PolicyReloaded()
		log.Info().
			Float64("critical_at", p.Scoring.CriticalAt).
			Float64("high_at", p.Scoring.HighAt).
			Msg("New policy applies from the next tool call")
	})

	return mcp.NewServer(mcp.Options{
		Store:   store,
		Policy:  policyLoader,
		Metrics: recorder,
		Config:  cfg,
		Version: Version,
	})
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
