package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/store"
)

// Version is reported in the MCP implementation info.
const Version = "1.0.0"

// Stores bundles the annotation services the tool handlers operate on.
type Stores struct {
	Groups *store.GroupService
	Tags   *store.TagService
}

// stores holds the services for tool handlers
var stores *Stores

// ServeStdio starts the MCP server using the official go-sdk over stdio
func ServeStdio(s *Stores) error {
	if s == nil || s.Groups == nil || s.Tags == nil {
		return errors.New("annotation stores are required")
	}
	stores = s

	// Try to restore a session from a previous MCP run so agent identity
	// survives stdio restarts
	LoadPersistedSession()

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "edt-annotations",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `📂 EDT ANNOTATIONS - Virtual folders and tags for metadata objects

You are connected to the annotation store of a metadata development
workspace. Projects contain a flat list of objects (identified by FQN
strings such as "CommonModule.Foo" or "Catalog.Products"); this store
overlays them with:
- GROUPS: a user-defined folder hierarchy. An object belongs to at most
  one group. Deleting a group never deletes objects.
- TAGS: colored labels. Any object can carry any number of tags.

## Getting Started
1. Call setup_agent first to initialize your session
2. Pass the 'project' parameter on every call - it is the project
   directory name inside the workspace

## Quick Reference
- GROUPS: list_groups, create_group, rename_group, delete_group,
  move_object_to_group, remove_object_from_group, find_group_for_object
- TAGS: list_tags, create_tag, update_tag, delete_tag, assign_tag,
  unassign_tag, get_object_tags, find_objects_by_tags
- REFACTORING: rename_object / remove_object keep annotations in sync
  when an object's FQN changes or the object is deleted

## Rules
- Group full paths are parent-path + "/" + name ("CommonModules/Utils")
- Tag names are unique and case-sensitive
- The durable files are plain YAML under version control; other tools
  may edit them - call refresh_project if you suspect stale data`,
		},
	)

	registerTools(server)

	// Run server over stdio
	return server.Run(context.Background(), &mcp.StdioTransport{})
}

// formatResponse wraps a payload with session context metadata so agents
// always know which workspace they operate in.
func formatResponse(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["_context"] = getContextString()
	return data
}

func getContextString() string {
	if IsSessionInitialized() {
		return GetSessionContext()
	}
	return "session not initialized - call setup_agent first"
}
