package commands

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapnav/internal/cli/config"
	"github.com/spf13/cobra"
)

// connectionInfo is the JSON shape of a listed connection.
type connectionInfo struct {
	Name        string `json:"name"`
	NodeID      string `json:"nodeId"`
	Type        string `json:"type"`
	Database    string `json:"database,omitempty"`
	Host        string `json:"host,omitempty"`
	Port        int    `json:"port,omitempty"`
	Schema      string `json:"schema,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewConnectionsCommand creates the connections command.
func NewConnectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "connections",
		Aliases: []string{"conn"},
		Short:   "List configured connections",
		Long: `List the connections from leapnav.yaml together with the node id of
each data source. Credentials are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetConfig(cmd.Context())
			if cfg == nil {
				return errNoConfig
			}
			return runConnections(cmd, cfg)
		},
	}
}

func runConnections(cmd *cobra.Command, cfg *config.Config) error {
	names := cfg.ConnectionNames()
	infos := make([]connectionInfo, 0, len(names))
	for _, name := range names {
		c := cfg.Connections[name]
		infos = append(infos, connectionInfo{
			Name:        name,
			NodeID:      "db://" + name,
			Type:        c.Type,
			Database:    c.Database,
			Host:        c.Host,
			Port:        c.Port,
			Schema:      c.Schema,
			Description: c.Description,
		})
	}

	out := cmd.OutOrStdout()
	if outputMode(cfg.OutputFormat, out) == outputJSON {
		return renderJSON(out, infos)
	}

	if len(infos) == 0 {
		_, _ = fmt.Fprintln(out, "No connections configured.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Type", "Database", "Host", "Schema", "Description"})
	for _, info := range infos {
		host := info.Host
		if host != "" && info.Port != 0 {
			host += ":" + strconv.Itoa(info.Port)
		}
		t.AppendRow(table.Row{info.Name, info.Type, info.Database, host, info.Schema, info.Description})
	}
	t.Render()
	return nil
}
