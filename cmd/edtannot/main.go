package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/cli/commands"
)

// Version will be set during build with ldflags
var Version = "1.0.0"

func main() {
	app := &cli.App{
		Name:    "edtannot",
		Usage:   "Virtual folder groups and tags for metadata development projects",
		Version: Version,
		Commands: []*cli.Command{
			// Annotation management
			commands.NewGroupCommand(),
			commands.NewTagCommand(),

			// Servers
			commands.NewMcpCommand(),
			commands.NewAPICommand(),

			// Meta
			commands.NewWatchCommand(),
			commands.NewConfigCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
