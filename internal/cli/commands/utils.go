package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/config"
	"github.com/DitriXNew/EDT-MCP-sub001/internal/store"
)

// Helper functions shared across commands

func stringPtr(s string) *string {
	return &s
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// workspaceFlags are accepted by every command that touches the store.
func workspaceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "workspace",
			Aliases: []string{"w"},
			Usage:   "Workspace root containing the projects (defaults to config)",
		},
		&cli.StringFlag{
			Name:    "project",
			Aliases: []string{"p"},
			Usage:   "Project directory name (defaults to the active project)",
		},
	}
}

// resolveTarget combines flags with the saved user config into the
// workspace layout and project to operate on.
func resolveTarget(c *cli.Context) (store.Layout, string, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return store.Layout{}, "", fmt.Errorf("load config: %w", err)
	}

	workspace := c.String("workspace")
	if workspace == "" {
		workspace = cfg.WorkspaceRoot
	}
	if workspace == "" {
		return store.Layout{}, "", fmt.Errorf("no workspace configured: pass --workspace or run 'edtannot config set-workspace'")
	}

	project := c.String("project")
	if project == "" {
		project = cfg.ActiveProject
	}
	if project == "" {
		return store.Layout{}, "", fmt.Errorf("no project selected: pass --project or run 'edtannot config set-project'")
	}

	appCfg, err := config.LoadApp()
	if err != nil {
		return store.Layout{}, "", err
	}
	return store.NewLayout(workspace, appCfg.Annotations.DirName), project, nil
}

// resolveLayout resolves the workspace layout without requiring a
// project; servers take the project on every request.
func resolveLayout(c *cli.Context) (store.Layout, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return store.Layout{}, fmt.Errorf("load config: %w", err)
	}

	workspace := c.String("workspace")
	if workspace == "" {
		workspace = cfg.WorkspaceRoot
	}

	appCfg, err := config.LoadApp()
	if err != nil {
		return store.Layout{}, err
	}
	if workspace == "" {
		workspace = appCfg.Annotations.Workspace
	}
	if workspace == "" {
		return store.Layout{}, fmt.Errorf("no workspace configured: pass --workspace or run 'edtannot config set-workspace'")
	}
	return store.NewLayout(workspace, appCfg.Annotations.DirName), nil
}

// newStores builds the annotation services for a CLI invocation.
func newStores(layout store.Layout) (*store.GroupService, *store.TagService) {
	notifier := store.NewNotifier()
	return store.NewGroupService(layout, notifier), store.NewTagService(layout, notifier)
}

// confirm asks before a destructive operation unless --yes was passed.
func confirm(c *cli.Context, message string) bool {
	if c.Bool("yes") {
		return true
	}
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false
	}
	return ok
}

func yesFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip the confirmation prompt",
	}
}
