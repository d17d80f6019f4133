package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/models"
)

// NewTagCommand creates all subcommands for the 'tag' command group.
func NewTagCommand() *cli.Command {
	return &cli.Command{
		Name:    "tag",
		Aliases: []string{"t"},
		Usage:   "Manage tags and tag assignments",
		Subcommands: []*cli.Command{
			tagListCmd(),
			tagCreateCmd(),
			tagUpdateCmd(),
			tagDeleteCmd(),
			tagAssignCmd(),
			tagUnassignCmd(),
			tagObjectsCmd(),
			tagOfCmd(),
			tagFindCmd(),
		},
	}
}

// swatch renders a colored marker for a tag, falling back to a plain
// bullet when the tag has no color.
func swatch(t *models.Tag) string {
	if t.Color == "" {
		return "●"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render("●")
}

// tagListCmd lists the tags of a project.
func tagListCmd() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List all tags",
		Flags:   workspaceFlags(),
		Action: func(c *cli.Context) error {
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			_, tags := newStores(layout)

			list := tags.Tags(project)
			if len(list) == 0 {
				fmt.Println("No tags found. Use 'edtannot tag create' to add one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, " \tNAME\tCOLOR\tDESCRIPTION")
			fmt.Fprintln(w, " \t----\t-----\t-----------")
			for _, t := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					swatch(t),
					t.Name,
					t.Color,
					truncateString(t.Description, 40))
			}
			w.Flush()
			return nil
		},
	}
}

// tagCreateCmd creates a new tag.
func tagCreateCmd() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a new tag",
		ArgsUsage: "[name]",
		Flags: append(workspaceFlags(),
			&cli.StringFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "Tag color as hex RGB, e.g. #ff8800",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "Tag description",
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("tag name is required")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			_, tags := newStores(layout)

			tag, ok, err := tags.Create(project, c.Args().First(), c.String("color"), c.String("description"))
			if err != nil {
				return fmt.Errorf("tag created in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("a tag named '%s' already exists", c.Args().First())
			}

			fmt.Printf("✅ Tag %s %s created successfully!\n", swatch(tag), tag.Name)
			return nil
		},
	}
}

// tagUpdateCmd updates a tag's name, color or description.
func tagUpdateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a tag (renames rewrite every assignment)",
		ArgsUsage: "[name]",
		Flags: append(workspaceFlags(),
			&cli.StringFlag{
				Name:  "rename",
				Usage: "New tag name",
			},
			&cli.StringFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "New color",
			},
			&cli.StringFlag{
				Name:    "description",
				Aliases: []string{"d"},
				Usage:   "New description",
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("tag name is required")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			_, tags := newStores(layout)

			upd := models.TagUpdate{}
			if c.IsSet("rename") {
				upd.Name = stringPtr(c.String("rename"))
			}
			if c.IsSet("color") {
				upd.Color = stringPtr(c.String("color"))
			}
			if c.IsSet("description") {
				upd.Description = stringPtr(c.String("description"))
			}

			ok, err := tags.Update(project, c.Args().First(), upd)
			if err != nil {
				return fmt.Errorf("update applied in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("tag not found, or the new name is already taken")
			}

			fmt.Println("✅ Tag updated")
			return nil
		},
	}
}

// tagDeleteCmd deletes a tag and strips it from every object.
func tagDeleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a tag and remove it from every object",
		ArgsUsage: "[name]",
		Flags:     append(workspaceFlags(), yesFlag()),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("tag name is required")
			}
			name := c.Args().First()
			if !confirm(c, fmt.Sprintf("Delete tag '%s'? It will be removed from every object.", name)) {
				fmt.Println("Cancelled.")
				return nil
			}

			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			_, tags := newStores(layout)

			ok, err := tags.Remove(project, name)
			if err != nil {
				return fmt.Errorf("delete applied in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("tag not found")
			}

			fmt.Printf("🗑️  Tag '%s' deleted\n", name)
			return nil
		},
	}
}

// tagAssignCmd attaches a tag to an object.
func tagAssignCmd() *cli.Command {
	return &cli.Command{
		Name:      "assign",
		Usage:     "Attach a tag to an object",
		ArgsUsage: "[object-fqn] [tag-name]",
		Flags:     workspaceFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("usage: tag assign <object-fqn> <tag-name>")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			_, tags := newStores(layout)

			ok, err := tags.Assign(project, c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("assignment applied in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("tag '%s' does not exist - create it first", c.Args().Get(1))
			}

			fmt.Printf("✅ '%s' tagged with '%s'\n", c.Args().Get(0), c.Args().Get(1))
			return nil
		},
	}
}

// tagUnassignCmd detaches a tag from an object.
func tagUnassignCmd() *cli.Command {
	return &cli.Command{
		Name:      "unassign",
		Usage:     "Detach a tag from an object",
		ArgsUsage: "[object-fqn] [tag-name]",
		Flags:     workspaceFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return fmt.Errorf("usage: tag unassign <object-fqn> <tag-name>")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			_, tags := newStores(layout)

			ok, err := tags.Unassign(project, c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return fmt.Errorf("change applied in memory but not saved: %w", err)
			}
			if !ok {
				return fmt.Errorf("'%s' does not carry tag '%s'", c.Args().Get(0), c.Args().Get(1))
			}

			fmt.Printf("✅ Tag '%s' removed from '%s'\n", c.Args().Get(1), c.Args().Get(0))
			return nil
		},
	}
}

// tagObjectsCmd lists the objects carrying a tag.
func tagObjectsCmd() *cli.Command {
	return &cli.Command{
		Name:      "objects",
		Usage:     "List the objects carrying a tag",
		ArgsUsage: "[tag-name]",
		Flags: append(workspaceFlags(),
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the object FQNs to the clipboard",
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("tag name is required")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			_, tags := newStores(layout)

			objects := tags.ObjectsByTag(project, c.Args().First())
			if len(objects) == 0 {
				fmt.Printf("No objects carry tag '%s'\n", c.Args().First())
				return nil
			}

			for _, fqn := range objects {
				fmt.Printf("  - %s\n", fqn)
			}

			if c.Bool("copy") {
				if err := clipboard.WriteAll(strings.Join(objects, "\n")); err != nil {
					fmt.Printf("⚠️  Could not copy to clipboard: %v\n", err)
				} else {
					fmt.Println("📋 Object FQNs copied to clipboard")
				}
			}
			return nil
		},
	}
}

// tagOfCmd shows the tags assigned to an object.
func tagOfCmd() *cli.Command {
	return &cli.Command{
		Name:      "of",
		Usage:     "Show the tags assigned to an object",
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
			_, tags := newStores(layout)

			list := tags.ObjectTags(project, c.Args().First())
			if len(list) == 0 {
				fmt.Printf("'%s' carries no tags\n", c.Args().First())
				return nil
			}
			for _, t := range list {
				fmt.Printf("  %s %s\n", swatch(t), t.Name)
			}
			return nil
		},
	}
}

// tagFindCmd finds the objects carrying at least one of the given tags.
func tagFindCmd() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Find objects carrying at least one of the given tags",
		ArgsUsage: "[tag-name...]",
		Flags:     workspaceFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("at least one tag name is required")
			}
			layout, project, err := resolveTarget(c)
			if err != nil {
				return err
			}
			_, tags := newStores(layout)

			matches := tags.FindObjectsByTags(project, c.Args().Slice())
			if len(matches) == 0 {
				fmt.Println("No objects found")
				return nil
			}

			fqns := make([]string, 0, len(matches))
			for fqn := range matches {
				fqns = append(fqns, fqn)
			}
			sort.Strings(fqns)

			for _, fqn := range fqns {
				names := make([]string, 0, len(matches[fqn]))
				for _, t := range matches[fqn] {
					names = append(names, swatch(t)+" "+t.Name)
				}
				fmt.Printf("  %s  [%s]\n", fqn, strings.Join(names, ", "))
			}
			return nil
		},
	}
}
