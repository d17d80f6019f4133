package commands

import (
	"fmt"
	"log"

	"github.com/urfave/cli/v2"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/api"
	"github.com/DitriXNew/EDT-MCP-sub001/internal/config"
)

func NewAPICommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "HTTP API server management",
		Subcommands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "workspace",
						Aliases: []string{"w"},
						Usage:   "Workspace root containing the projects (defaults to config)",
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (defaults to config server.host:server.port)",
					},
				},
				Action: func(c *cli.Context) error {
					layout, err := resolveLayout(c)
					if err != nil {
						return err
					}
					groups, tags := newStores(layout)

					addr := c.String("addr")
					if addr == "" {
						appCfg, err := config.LoadApp()
						if err != nil {
							return err
						}
						addr = fmt.Sprintf("%s:%d", appCfg.Server.Host, appCfg.Server.Port)
					}

					log.Printf("annotation API listening on %s (workspace %s)", addr, layout.WorkspaceRoot)
					return api.NewRouter(groups, tags).Run(addr)
				},
			},
		},
	}
}
