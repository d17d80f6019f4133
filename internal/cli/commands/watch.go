package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/store"
)

// NewWatchCommand runs the external edit watcher in the foreground,
// printing every detected change. Useful for debugging sync issues with
// version control or other editors.
func NewWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch annotation files for external edits",
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
			notifier := groups.Notifier()

			notifier.Subscribe(store.ChangeListener{
				OnCollectionChanged: func(project string) {
					fmt.Printf("🔄 %s: annotations changed, cache reloaded\n", project)
				},
			})

			watcher, err := store.NewWatcher(layout, groups, tags, notifier)
			if err != nil {
				return err
			}
			defer watcher.Close()

			entries, err := os.ReadDir(layout.WorkspaceRoot)
			if err != nil {
				return fmt.Errorf("read workspace %s: %w", layout.WorkspaceRoot, err)
			}
			watched := 0
			for _, e := range entries {
				if !e.IsDir() {
					continue
				}
				if err := watcher.WatchProject(e.Name()); err != nil {
					fmt.Printf("⚠️  %s: %v\n", e.Name(), err)
					continue
				}
				watched++
			}
			if watched == 0 {
				return fmt.Errorf("no project directories found in %s", layout.WorkspaceRoot)
			}

			watcher.Start()
			fmt.Printf("👀 Watching %d project(s) under %s (Ctrl+C to stop)\n", watched, layout.WorkspaceRoot)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			fmt.Println("\nStopped.")
			return nil
		},
	}
}
