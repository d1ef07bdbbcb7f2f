package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapnav/internal/session"
	"github.com/spf13/cobra"
)

// NewDDLCommand creates the ddl command.
func NewDDLCommand() *cobra.Command {
	var rawOptions []string

	cmd := &cobra.Command{
		Use:   "ddl <nodeId>",
		Short: "Print the definition text of a navigator node",
		Long: `Resolve a navigator node id and print its definition text (DDL).

Only tables and views carry definition text. Connections, schemas,
columns, folders and resource files are rejected with an error.

Script options are passed with --option and use the same names as the
GraphQL API. Values are parsed as booleans or integers when possible.`,
		Example: `  # CREATE statement of a table
  leapnav ddl db://local/main/orders

  # Include a DROP statement and render on one line
  leapnav ddl db://local/main/orders --option script.includeDrop=true --option script.format.compact=true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := parseOptions(rawOptions)
			if err != nil {
				return err
			}
			return runDDL(cmd, args[0], options)
		},
	}

	cmd.Flags().StringArrayVar(&rawOptions, "option", nil, "Script option as key=value (repeatable)")

	return cmd
}

func runDDL(cmd *cobra.Command, nodeID string, options map[string]any) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	sess := session.New(uuid.NewString())
	defer sess.Close()

	text, err := cmdCtx.Resolver.Resolve(cmd.Context(), sess, nodeID, options)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprint(out, text)
	if !strings.HasSuffix(text, "\n") {
		_, _ = fmt.Fprintln(out)
	}
	return nil
}

// parseOptions converts key=value pairs into an options map.
func parseOptions(pairs []string) (map[string]any, error) {
	options := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q\nHint: Use --option key=value", pair)
		}
		options[key] = parseOptionValue(value)
	}
	return options, nil
}

func parseOptionValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
