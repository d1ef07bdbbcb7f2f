package commands

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapnav/internal/session"
	"github.com/spf13/cobra"
)

// NewNodeCommand creates the node command.
func NewNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "node <nodeId>",
		Short: "Show how a navigator node is classified",
		Long: `Resolve a navigator node id and show its canonical id, name, node
type, whether it is a catalog node and whether it supports DDL.`,
		Example: `  leapnav node db://local/main/orders
  leapnav node folder://local/main/tables --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNode(cmd, args[0])
		},
	}
}

func runNode(cmd *cobra.Command, nodeID string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	sess := session.New(uuid.NewString())
	defer sess.Close()

	info, err := cmdCtx.Resolver.Describe(cmd.Context(), sess, nodeID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputMode(cmdCtx.Cfg.OutputFormat, out) == outputJSON {
		return renderJSON(out, info)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"id", info.ID},
		{"name", info.Name},
		{"type", info.NodeType},
		{"catalog", strconv.FormatBool(info.Catalog)},
		{"supports ddl", strconv.FormatBool(info.SupportsDDL)},
	})
	t.Render()
	return nil
}
