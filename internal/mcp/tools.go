package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/models"
)

// registerTools registers all MCP tools with the server using go-sdk.
// The SDK infers each InputSchema from the handler's input struct type.
func registerTools(server *mcp.Server) {
	// ============================================================================
	// Agent Onboarding
	// ============================================================================
	mcp.AddTool(server, &mcp.Tool{
		Name:        "setup_agent",
		Description: "🔴 ESSENTIAL | Initialize agent session. ⚠️ CALL THIS FIRST! Provide your agent name and model for tracking.",
	}, handleSetupAgent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_annotations_info",
		Description: "🔴 ESSENTIAL | Overview of the annotation store: what groups and tags are, and how the tools fit together.",
	}, handleGetInfo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "refresh_project",
		Description: "🟢 ADVANCED | Drop the cached annotations of a project and reload from the durable files. Use after out-of-band edits.",
	}, handleRefreshProject)

	// ============================================================================
	// Virtual Folder Groups
	// ============================================================================
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_groups",
		Description: "🔴 ESSENTIAL | List groups of a project. Pass 'path' to list one level, omit it for the whole hierarchy.",
	}, handleListGroups)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_group",
		Description: "🟡 COMMON | Create a group. REQUIRED: project, name. Optional parent_path nests it under an existing group.",
	}, handleCreateGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "rename_group",
		Description: "🟡 COMMON | Rename a group by full path. Nested groups move with it.",
	}, handleRenameGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_group",
		Description: "🟢 ADVANCED | Update a group's description and optionally its name.",
	}, handleUpdateGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_group",
		Description: "🟡 COMMON | Delete a group. Contained objects are un-grouped, never deleted; nested groups are re-parented.",
	}, handleDeleteGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_object_to_group",
		Description: "🔴 ESSENTIAL | Put an object into a group. An object belongs to at most one group; it leaves its current group automatically.",
	}, handleMoveObjectToGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_object_from_group",
		Description: "🟡 COMMON | Un-group an object so it reverts to its natural location.",
	}, handleRemoveObjectFromGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_group_for_object",
		Description: "🟡 COMMON | Find which group contains an object, if any.",
	}, handleFindGroupForObject)

	// ============================================================================
	// Tags
	// ============================================================================
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tags",
		Description: "🔴 ESSENTIAL | List every tag of a project.",
	}, handleListTags)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_tag",
		Description: "🟡 COMMON | Create a tag. REQUIRED: project, name. Optional color (hex RGB) and description.",
	}, handleCreateTag)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_tag",
		Description: "🟢 ADVANCED | Update a tag's name, color or description. Renames rewrite every assignment atomically.",
	}, handleUpdateTag)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_tag",
		Description: "🟡 COMMON | Delete a tag and strip it from every object.",
	}, handleDeleteTag)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "assign_tag",
		Description: "🔴 ESSENTIAL | Attach a tag to an object. Idempotent.",
	}, handleAssignTag)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "unassign_tag",
		Description: "🟡 COMMON | Detach a tag from an object.",
	}, handleUnassignTag)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_object_tags",
		Description: "🔴 ESSENTIAL | Get the full tag records assigned to an object.",
	}, handleGetObjectTags)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_objects_by_tags",
		Description: "🟡 COMMON | Find every object carrying at least one of the given tags, with its matching tags attached.",
	}, handleFindObjectsByTags)

	// ============================================================================
	// Refactoring Support
	// ============================================================================
	mcp.AddTool(server, &mcp.Tool{
		Name:        "rename_object",
		Description: "🟢 ADVANCED | An object's FQN changed (refactoring). Moves its group membership and tag assignments to the new FQN.",
	}, handleRenameObject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_object",
		Description: "🟢 ADVANCED | An object was deleted. Drops its group membership and tag assignments.",
	}, handleRemoveObject)
}

// ToolDefinitions lists the tools for `edtannot mcp tools`.
func ToolDefinitions() []map[string]string {
	return []map[string]string{
		{"name": "setup_agent", "description": "Initialize agent session"},
		{"name": "get_annotations_info", "description": "Overview of the annotation store"},
		{"name": "refresh_project", "description": "Reload a project's annotations from disk"},
		{"name": "list_groups", "description": "List groups of a project"},
		{"name": "create_group", "description": "Create a group"},
		{"name": "rename_group", "description": "Rename a group (cascades to nested groups)"},
		{"name": "update_group", "description": "Update a group's description and optionally name"},
		{"name": "delete_group", "description": "Delete a group (objects are un-grouped)"},
		{"name": "move_object_to_group", "description": "Put an object into a group"},
		{"name": "remove_object_from_group", "description": "Un-group an object"},
		{"name": "find_group_for_object", "description": "Find the group containing an object"},
		{"name": "list_tags", "description": "List every tag of a project"},
		{"name": "create_tag", "description": "Create a tag"},
		{"name": "update_tag", "description": "Update a tag (renames rewrite assignments)"},
		{"name": "delete_tag", "description": "Delete a tag and strip it everywhere"},
		{"name": "assign_tag", "description": "Attach a tag to an object"},
		{"name": "unassign_tag", "description": "Detach a tag from an object"},
		{"name": "get_object_tags", "description": "Tags assigned to an object"},
		{"name": "find_objects_by_tags", "description": "Objects carrying any of the given tags"},
		{"name": "rename_object", "description": "Move annotations to a renamed object's new FQN"},
		{"name": "remove_object", "description": "Drop annotations of a deleted object"},
	}
}

// ============================================================================
// Shared helpers
// ============================================================================

func requireProject(project string) (string, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return "", errors.New("project is required")
	}
	SetSessionProject(project)
	return project, nil
}

func groupJSON(g *models.Group) map[string]interface{} {
	return map[string]interface{}{
		"name":        g.Name,
		"path":        g.Path,
		"full_path":   g.FullPath(),
		"order":       g.Order,
		"description": g.Description,
		"children":    g.Children,
	}
}

func failure(message string) map[string]interface{} {
	return formatResponse(map[string]interface{}{"ok": false, "error": message})
}

// ============================================================================
// Onboarding handlers
// ============================================================================

type EmptyInput struct{}

type SetupAgentInput struct {
	AgentName  string `json:"agent_name,omitempty"`
	AgentModel string `json:"agent_model,omitempty"`
}

func handleSetupAgent(ctx context.Context, req *mcp.CallToolRequest, input SetupAgentInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	agentName := strings.TrimSpace(input.AgentName)
	if agentName == "" {
		agentName = "unknown-agent"
	}
	session := InitializeSession(agentName, strings.TrimSpace(input.AgentModel))

	return nil, formatResponse(map[string]interface{}{
		"ok": true,
		"session": map[string]interface{}{
			"id":          session.ID,
			"agent_name":  session.AgentName,
			"agent_model": session.AgentModel,
		},
		"workflow_guide": map[string]interface{}{
			"step_1": "✅ setup_agent called - session initialized",
			"step_2": "📂 Pass 'project' on every call (the project directory name)",
			"step_3": "📝 Use list_groups / list_tags to see existing annotations",
		},
	}), nil
}

func handleGetInfo(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	return nil, formatResponse(map[string]interface{}{
		"name":    "edt-annotations",
		"version": Version,
		"concepts": map[string]interface{}{
			"groups": "user-defined folder hierarchy over a flat object list; an object belongs to at most one group",
			"tags":   "colored many-to-many labels; tag names are unique and case-sensitive",
			"files":  "plain YAML per project (groups.yml, tags.yml) kept under version control",
		},
		"tools": ToolDefinitions(),
	}), nil
}

type RefreshProjectInput struct {
	Project string `json:"project"`
}

func handleRefreshProject(ctx context.Context, req *mcp.CallToolRequest, input RefreshProjectInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	stores.Groups.Invalidate(project)
	stores.Tags.Invalidate(project)
	return nil, formatResponse(map[string]interface{}{"ok": true, "project": project}), nil
}

// ============================================================================
// Group handlers
// ============================================================================

type ListGroupsInput struct {
	Project string `json:"project"`
	Path    string `json:"path,omitempty"`
	AtPath  bool   `json:"at_path,omitempty"`
}

func handleListGroups(ctx context.Context, req *mcp.CallToolRequest, input ListGroupsInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}

	var groups []*models.Group
	if input.AtPath || input.Path != "" {
		groups = stores.Groups.GroupsAtPath(project, input.Path)
	} else {
		groups = stores.Groups.Groups(project)
	}

	items := make([]map[string]interface{}, 0, len(groups))
	for _, g := range groups {
		items = append(items, groupJSON(g))
	}
	return nil, formatResponse(map[string]interface{}{"groups": items, "count": len(items)}), nil
}

type CreateGroupInput struct {
	Project     string `json:"project"`
	Name        string `json:"name"`
	ParentPath  string `json:"parent_path,omitempty"`
	Description string `json:"description,omitempty"`
}

func handleCreateGroup(ctx context.Context, req *mcp.CallToolRequest, input CreateGroupInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, errors.New("name is required")
	}

	group, ok, err := stores.Groups.Create(project, name, input.ParentPath, input.Description)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("a group already exists at this path (or the name contains '/')"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true, "group": groupJSON(group)}), nil
}

type RenameGroupInput struct {
	Project  string `json:"project"`
	FullPath string `json:"full_path"`
	NewName  string `json:"new_name"`
}

func handleRenameGroup(ctx context.Context, req *mcp.CallToolRequest, input RenameGroupInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	ok, err := stores.Groups.Rename(project, input.FullPath, strings.TrimSpace(input.NewName))
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("group not found, or a group already exists at the new path"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true}), nil
}

type UpdateGroupInput struct {
	Project     string  `json:"project"`
	FullPath    string  `json:"full_path"`
	NewName     *string `json:"new_name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func handleUpdateGroup(ctx context.Context, req *mcp.CallToolRequest, input UpdateGroupInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	upd := models.GroupUpdate{Description: input.Description}
	if input.NewName != nil {
		name := strings.TrimSpace(*input.NewName)
		upd.Name = &name
	}
	ok, err := stores.Groups.Update(project, input.FullPath, upd)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("group not found, or the new name collides with an existing group"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true}), nil
}

type DeleteGroupInput struct {
	Project  string `json:"project"`
	FullPath string `json:"full_path"`
}

func handleDeleteGroup(ctx context.Context, req *mcp.CallToolRequest, input DeleteGroupInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	ok, err := stores.Groups.Remove(project, input.FullPath)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("group not found"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true}), nil
}

type MoveObjectInput struct {
	Project string `json:"project"`
	Object  string `json:"object"`
	Group   string `json:"group"`
}

func handleMoveObjectToGroup(ctx context.Context, req *mcp.CallToolRequest, input MoveObjectInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	object := strings.TrimSpace(input.Object)
	if object == "" {
		return nil, nil, errors.New("object is required")
	}
	ok, err := stores.Groups.MoveObject(project, object, input.Group)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("target group not found"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true, "object": object, "group": input.Group}), nil
}

type ObjectInput struct {
	Project string `json:"project"`
	Object  string `json:"object"`
}

func handleRemoveObjectFromGroup(ctx context.Context, req *mcp.CallToolRequest, input ObjectInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	ok, err := stores.Groups.RemoveObject(project, input.Object)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("object is not in any group"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true}), nil
}

func handleFindGroupForObject(ctx context.Context, req *mcp.CallToolRequest, input ObjectInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	group := stores.Groups.FindGroupForObject(project, input.Object)
	if group == nil {
		return nil, formatResponse(map[string]interface{}{"found": false}), nil
	}
	return nil, formatResponse(map[string]interface{}{"found": true, "group": groupJSON(group)}), nil
}

// ============================================================================
// Tag handlers
// ============================================================================

type ListTagsInput struct {
	Project string `json:"project"`
}

func handleListTags(ctx context.Context, req *mcp.CallToolRequest, input ListTagsInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	tags := stores.Tags.Tags(project)
	return nil, formatResponse(map[string]interface{}{"tags": tags, "count": len(tags)}), nil
}

type CreateTagInput struct {
	Project     string `json:"project"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

func handleCreateTag(ctx context.Context, req *mcp.CallToolRequest, input CreateTagInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, errors.New("name is required")
	}
	tag, ok, err := stores.Tags.Create(project, name, input.Color, input.Description)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("a tag with this name already exists"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true, "tag": tag}), nil
}

type UpdateTagInput struct {
	Project     string  `json:"project"`
	Name        string  `json:"name"`
	NewName     *string `json:"new_name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

func handleUpdateTag(ctx context.Context, req *mcp.CallToolRequest, input UpdateTagInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	ok, err := stores.Tags.Update(project, input.Name, models.TagUpdate{
		Name:        input.NewName,
		Color:       input.Color,
		Description: input.Description,
	})
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("tag not found, or the new name is already taken"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true}), nil
}

type TagNameInput struct {
	Project string `json:"project"`
	Name    string `json:"name"`
}

func handleDeleteTag(ctx context.Context, req *mcp.CallToolRequest, input TagNameInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	ok, err := stores.Tags.Remove(project, input.Name)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("tag not found"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true}), nil
}

type AssignTagInput struct {
	Project string `json:"project"`
	Object  string `json:"object"`
	Tag     string `json:"tag"`
}

func handleAssignTag(ctx context.Context, req *mcp.CallToolRequest, input AssignTagInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	ok, err := stores.Tags.Assign(project, input.Object, input.Tag)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("tag does not exist - create it first"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true}), nil
}

func handleUnassignTag(ctx context.Context, req *mcp.CallToolRequest, input AssignTagInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	ok, err := stores.Tags.Unassign(project, input.Object, input.Tag)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, failure("the object does not carry this tag"), nil
	}
	return nil, formatResponse(map[string]interface{}{"ok": true}), nil
}

func handleGetObjectTags(ctx context.Context, req *mcp.CallToolRequest, input ObjectInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	tags := stores.Tags.ObjectTags(project, input.Object)
	return nil, formatResponse(map[string]interface{}{"object": input.Object, "tags": tags, "count": len(tags)}), nil
}

type FindByTagsInput struct {
	Project string   `json:"project"`
	Tags    []string `json:"tags"`
}

func handleFindObjectsByTags(ctx context.Context, req *mcp.CallToolRequest, input FindByTagsInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	if len(input.Tags) == 0 {
		return nil, nil, errors.New("tags are required")
	}
	matches := stores.Tags.FindObjectsByTags(project, input.Tags)
	items := make(map[string]interface{}, len(matches))
	for fqn, tags := range matches {
		items[fqn] = tags
	}
	return nil, formatResponse(map[string]interface{}{"objects": items, "count": len(items)}), nil
}

// ============================================================================
// Refactoring handlers
// ============================================================================

type RenameObjectInput struct {
	Project string `json:"project"`
	OldFqn  string `json:"old_fqn"`
	NewFqn  string `json:"new_fqn"`
}

func handleRenameObject(ctx context.Context, req *mcp.CallToolRequest, input RenameObjectInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	oldFqn := strings.TrimSpace(input.OldFqn)
	newFqn := strings.TrimSpace(input.NewFqn)
	if oldFqn == "" || newFqn == "" {
		return nil, nil, errors.New("old_fqn and new_fqn are required")
	}

	groupsMoved, gerr := stores.Groups.RenameObject(project, oldFqn, newFqn)
	if gerr != nil {
		return nil, nil, gerr
	}
	tagsMoved, terr := stores.Tags.RenameObject(project, oldFqn, newFqn)
	if terr != nil {
		return nil, nil, terr
	}
	return nil, formatResponse(map[string]interface{}{
		"ok":           true,
		"groups_moved": groupsMoved,
		"tags_moved":   tagsMoved,
	}), nil
}

func handleRemoveObject(ctx context.Context, req *mcp.CallToolRequest, input ObjectInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	project, err := requireProject(input.Project)
	if err != nil {
		return nil, nil, err
	}
	object := strings.TrimSpace(input.Object)
	if object == "" {
		return nil, nil, errors.New("object is required")
	}

	ungrouped, gerr := stores.Groups.RemoveObject(project, object)
	if gerr != nil {
		return nil, nil, gerr
	}
	untagged, terr := stores.Tags.RemoveObject(project, object)
	if terr != nil {
		return nil, nil, terr
	}
	return nil, formatResponse(map[string]interface{}{
		"ok":        true,
		"ungrouped": ungrouped,
		"untagged":  untagged,
	}), nil
}
