package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapnav/internal/api"
	"github.com/leapstack-labs/leapnav/internal/cli/config"
	"github.com/leapstack-labs/leapnav/internal/datatransfer"
	"github.com/leapstack-labs/leapnav/internal/navigator"
	"github.com/leapstack-labs/leapnav/internal/server"
	"github.com/leapstack-labs/leapnav/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewServeCommand creates the serve command.
func NewServeCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the GraphQL server",
		Long: `Start the HTTP server exposing the GraphQL API at /api/graphql.

Each browser session gets its own node cache. Idle sessions expire after
server.session_ttl. With --watch, connections are reloaded whenever the
config file changes.`,
		Example: `  # Start on the default port
  leapnav serve

  # Start on a custom port without config reload
  leapnav serve --port 9000 --watch=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetConfig(cmd.Context())
			if cfg == nil {
				return errNoConfig
			}
			applyServeFlags(cmd.Flags(), cfg)

			srv, err := newServer(cfg, config.GetLogger(cmd.Context()), version, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "Port to listen on")
	cmd.Flags().Bool("watch", true, "Reload connections when the config file changes")

	return cmd
}

// applyServeFlags overrides server settings with explicitly set serve flags.
func applyServeFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("watch") {
		cfg.Server.Watch, _ = flags.GetBool("watch")
	}
}

// newServer wires the navigator tree, session manager and GraphQL schema into a server.
func newServer(cfg *config.Config, logger *slog.Logger, version string, flags *pflag.FlagSet) (*server.Server, error) {
	if err := cfg.ValidateDirectories(); err != nil {
		logger.Warn("resource nodes disabled", "error", err)
	}

	tree := navigator.NewTree(cfg.NavigatorConfig(), logger)
	sessions := session.NewManager(cfg.Server.SessionTTL, logger)
	resolver := datatransfer.NewResolver(session.NewNodeRegistry(tree), logger)

	schema, err := api.NewSchema(resolver, version)
	if err != nil {
		_ = tree.Close()
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}

	secret := cfg.Server.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("server.session_secret not set, sessions will not survive a restart")
	}

	configFile := cfg.ConfigFile
	return server.New(server.Config{
		Tree:          tree,
		Sessions:      sessions,
		Schema:        schema,
		Port:          cfg.Server.Port,
		SessionSecret: secret,
		Watch:         cfg.Server.Watch,
		ConfigFile:    configFile,
		Reload: func() (navigator.Config, error) {
			fresh, err := config.Load(configFile, flags)
			if err != nil {
				return navigator.Config{}, err
			}
			return fresh.NavigatorConfig(), nil
		},
		Logger: logger,
	}), nil
}
