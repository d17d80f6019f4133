package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/config"
)

func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the current configuration",
				Action: func(c *cli.Context) error {
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					path, _ := config.GetConfigPath()
					fmt.Printf("Config file: %s\n", path)
					fmt.Printf("Workspace root: %s\n", orUnset(cfg.WorkspaceRoot))
					fmt.Printf("Active project: %s\n", orUnset(cfg.ActiveProject))
					return nil
				},
			},
			{
				Name:      "set-workspace",
				Usage:     "Set the workspace root directory",
				ArgsUsage: "[path]",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("workspace path is required")
					}
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					cfg.WorkspaceRoot = c.Args().First()
					if err := config.SaveConfig(cfg); err != nil {
						return err
					}
					fmt.Printf("✅ Workspace root set to %s\n", cfg.WorkspaceRoot)
					return nil
				},
			},
			{
				Name:      "set-project",
				Usage:     "Set the active project",
				ArgsUsage: "[name]",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("project name is required")
					}
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					cfg.ActiveProject = c.Args().First()
					if err := config.SaveConfig(cfg); err != nil {
						return err
					}
					fmt.Printf("✅ Active project set to %s\n", cfg.ActiveProject)
					return nil
				},
			},
		},
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
