package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/mcp"
)

func NewMcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "MCP (Model Context Protocol) server management",
		Subcommands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start MCP server (stdio)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "workspace",
						Aliases: []string{"w"},
						Usage:   "Workspace root containing the projects (defaults to config)",
					},
				},
				Action: func(c *cli.Context) error {
					layout, err := resolveLayout(c)
					if err != nil {
						return err
					}
					groups, tags := newStores(layout)
					return mcp.ServeStdio(&mcp.Stores{Groups: groups, Tags: tags})
				},
			},
			{
				Name:  "config",
				Usage: "Print MCP config example for clients",
				Action: func(c *cli.Context) error {
					printClientConfig()
					return nil
				},
			},
			{
				Name:  "tools",
				Usage: "List available MCP tools",
				Action: func(c *cli.Context) error {
					b, _ := json.MarshalIndent(mcp.ToolDefinitions(), "", "  ")
					os.Stdout.Write(b)
					os.Stdout.Write([]byte("\n"))
					return nil
				},
			},
		},
	}
}

func printClientConfig() {
	fmt.Println(`Add this to your MCP client configuration:

{
  "mcpServers": {
    "edt-annotations": {
      "command": "edtannot",
      "args": ["mcp", "serve"]
    }
  }
}`)
}
