package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapnav/internal/cli/config"
	"github.com/leapstack-labs/leapnav/internal/datatransfer"
	"github.com/leapstack-labs/leapnav/internal/navigator"
	"github.com/leapstack-labs/leapnav/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Output modes after resolving "auto".
const (
	outputText = "text"
	outputJSON = "json"
)

var errNoConfig = errors.New("configuration not loaded")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Tree     *navigator.Tree
	Resolver *datatransfer.Resolver
}

// NewCommandContext creates a CommandContext with a navigator tree and resolver.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := config.GetConfig(cmd.Context())
	if cfg == nil {
		return nil, nil, errNoConfig
	}
	logger := config.GetLogger(cmd.Context())

	tree := navigator.NewTree(cfg.NavigatorConfig(), logger)
	resolver := datatransfer.NewResolver(session.NewNodeRegistry(tree), logger)

	cleanup := func() {
		if err := tree.Close(); err != nil {
			logger.Warn("failed to close connections", "error", err)
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Tree:     tree,
		Resolver: resolver,
	}, cleanup, nil
}

// outputMode resolves the configured output format for w.
// auto renders text on a terminal and JSON otherwise.
func outputMode(format string, w io.Writer) string {
	switch format {
	case outputText, outputJSON:
		return format
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return outputText
	}
	return outputJSON
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
