package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/urfave/cli/v2"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/models"
)

// NewGroupCommand creates all subcommands for the 'group' command group.
func NewGroupCommand() *cli.Command {
	return &cli.Command{
		Name:    "group",
		Aliases: []string{"g"},
		Usage:   "Manage virtual folder groups",
		Subcommands: []*cli.Command{
			groupListCmd(),
			groupCreateCmd(),
			groupRenameCmd(),
			groupUpdateCmd(),
			groupDeleteCmd(),
			groupMoveCmd(),
			groupUngroupCmd(),
			groupShowCmd(),
			groupFindCmd(),
		},
	}
}

// groupListCmd lists the groups of a project.
func groupListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List groups",
		Flags: append(workspaceFlags(),
			&cli.StringFlag{
				Name:  "path",
				Usage: "Only list groups directly beneath this path",
			},
		),
		Action: func(c *cli.Context) error {
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			groups, _ := newStores(layout)

			list := groups.Groups(project)
			if c.IsSet("path") {
				list = groups.GroupsAtPath(project, c.String("path"))
			}
			if len(list) == 0 {
				fmt.Println("No groups found. Use 'edtannot group create' to add one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FULL PATH\tORDER\tOBJECTS\tDESCRIPTION")
			fmt.Fprintln(w, "---------\t-----\t-------\t-----------")
			for _, g := range list {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n",
					g.FullPath(),
					g.Order,
					len(g.Children),
					truncateString(g.Description, 40))
			}
			w.Flush()
			return nil
		},
	}
}

// groupCreateCmd creates a new group.
func groupCreateCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a new group",
		ArgsUsage: "[name]",
		Flags: append(workspaceFlags(),
			&cli.StringFlag{
				Name:    "parent",
				Aliases: []string{"P"},
				Usage:   "Full path of the parent group (empty for root)",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Group description",
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("group name is required")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			groups, _ := newStores(layout)

			group, ok, err := groups.Create(project, c.Args().First(), c.String("parent"), c.String("description"))
			if err != nil {
				return fmt.Errorf("group created in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("a group already exists at this path")
			}

			fmt.Printf("✅ Group '%s' created successfully!\n", group.FullPath())
			fmt.Printf("Order: %d\n", group.Order)
			return nil
		},
	}
}

// groupRenameCmd renames a group, cascading to nested groups.
func groupRenameCmd() *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Rename a group (nested groups move with it)",
		ArgsUsage: "[full-path] [new-name]",
		Flags:     workspaceFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("usage: group rename <full-path> <new-name>")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			groups, _ := newStores(layout)

			ok, err := groups.Rename(project, c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("rename applied in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("group not found, or a group already exists at the new path")
			}

			fmt.Printf("✅ Group renamed to '%s'\n", c.Args().Get(1))
			return nil
		},
	}
}

// groupUpdateCmd changes a group's name or description.
func groupUpdateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a group's name or description",
		ArgsUsage: "[full-path]",
		Flags: append(workspaceFlags(),
			&cli.StringFlag{
				Name:  "rename",
				Usage: "New group name (nested groups move with it)",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "New description",
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("group full path is required")
			}
			upd := models.GroupUpdate{}
			if c.IsSet("rename") {
				upd.Name = stringPtr(c.String("rename"))
			}
			if c.IsSet("description") {
				upd.Description = stringPtr(c.String("description"))
			}
			if upd.Name == nil && upd.Description == nil {
				return fmt.Errorf("nothing to update: pass --rename or --description")
			}

			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			groups, _ := newStores(layout)

			ok, err := groups.Update(project, c.Args().First(), upd)
			if err != nil {
				return fmt.Errorf("update applied in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("group not found, or the new name collides with an existing group")
			}

			fmt.Println("✅ Group updated")
			return nil
		},
	}
}

// groupDeleteCmd deletes a group; its objects are un-grouped, not deleted.
func groupDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a group (objects are un-grouped, never deleted)",
		ArgsUsage: "[full-path]",
		Flags:     append(workspaceFlags(), yesFlag()),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("group full path is required")
			}
			fullPath := c.Args().First()
			if !confirm(c, fmt.Sprintf("Delete group '%s'? Its objects revert to their natural location.", fullPath)) {
				fmt.Println("Cancelled.")
				return nil
			}

			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			groups, _ := newStores(layout)

			ok, err := groups.Remove(project, fullPath)
			if err != nil {
				return fmt.Errorf("delete applied in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("group not found")
			}

			fmt.Printf("🗑️  Group '%s' deleted\n", fullPath)
			return nil
		},
	}
}

// groupMoveCmd puts an object into a group.
func groupMoveCmd() *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Move an object into a group",
		ArgsUsage: "[object-fqn] [group-full-path]",
		Flags:     workspaceFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("usage: group move <object-fqn> <group-full-path>")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			groups, _ := newStores(layout)

			ok, err := groups.MoveObject(project, c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("move applied in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("target group not found")
			}

			fmt.Printf("✅ '%s' moved to '%s'\n", c.Args().Get(0), c.Args().Get(1))
			return nil
		},
	}
}

// groupUngroupCmd removes an object from whichever group contains it.
func groupUngroupCmd() *cli.Command {
	return &cli.Command{
		Name:      "ungroup",
		Usage:     "Remove an object from its group",
		ArgsUsage: "[object-fqn]",
		Flags:     workspaceFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("object FQN is required")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			groups, _ := newStores(layout)

			ok, err := groups.RemoveObject(project, c.Args().First())
			if err != nil {
				return fmt.Errorf("change applied in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("object is not in any group")
			}

			fmt.Printf("✅ '%s' is no longer grouped\n", c.Args().First())
			return nil
		},
	}
}

// groupShowCmd shows a group's details and contained objects.
func groupShowCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a group and its objects",
		ArgsUsage: "[full-path]",
		Flags: append(workspaceFlags(),
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the contained object FQNs to the clipboard",
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("group full path is required")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			groups, _ := newStores(layout)

			group := groups.FindGroup(project, c.Args().First())
			if group == nil {
				return fmt.Errorf("group not found")
			}

			fmt.Printf("📁 %s\n", group.FullPath())
			if group.Description != "" {
				fmt.Printf("Description: %s\n", group.Description)
			}
			fmt.Printf("Order: %d\n", group.Order)
			fmt.Printf("Objects (%d):\n", len(group.Children))
			for _, fqn := range group.Children {
				fmt.Printf("  - %s\n", fqn)
			}

			if c.Bool("copy") && len(group.Children) > 0 {
				if err := clipboard.WriteAll(strings.Join(group.Children, "\n")); err != nil {
					fmt.Printf("⚠️  Could not copy to clipboard: %v\n", err)
				} else {
					fmt.Println("📋 Object FQNs copied to clipboard")
				}
			}
			return nil
		},
	}
}

// groupFindCmd finds the group containing an object.
func groupFindCmd() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Find which group contains an object",
		ArgsUsage: "[object-fqn]",
		Flags:     workspaceFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("object FQN is required")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			groups, _ := newStores(layout)

			group := groups.FindGroupForObject(project, c.Args().First())
			if group == nil {
				fmt.Printf("'%s' is not in any group\n", c.Args().First())
				return nil
			}
			fmt.Printf("📁 %s\n", group.FullPath())
			return nil
		},
	}
}
