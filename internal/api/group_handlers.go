package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/models"
)

// CreateGroupInput DTO for creating a new group
type CreateGroupInput struct {
	Name        string `json:"name" binding:"required"`
	ParentPath  string `json:"parent_path"`
	Description string `json:"description"`
}

// CreateGroup creates a new virtual folder group.
func (s *Server) CreateGroup(c *gin.Context) {
	var input CreateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, ok, err := s.groups.Create(c.Param("project"), input.Name, input.ParentPath, input.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist group", "group": group})
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "A group already exists at this path"})
		return
	}

	c.JSON(http.StatusCreated, group)
}

// ListGroups retrieves the groups of a project. With a "path" query the
// result is limited to one hierarchy level, in display order.
func (s *Server) ListGroups(c *gin.Context) {
	project := c.Param("project")
	var list []*models.Group
	if path, ok := c.GetQuery("path"); ok {
		list = s.groups.GroupsAtPath(project, path)
	} else {
		list = s.groups.Groups(project)
	}
	if list == nil {
		list = []*models.Group{}
	}
	c.JSON(http.StatusOK, list)
}

// UpdateGroupInput DTO for a partial group update
type UpdateGroupInput struct {
	FullPath    string  `json:"full_path" binding:"required"`
	NewName     *string `json:"new_name"`
	Description *string `json:"description"`
}

// UpdateGroup updates a group's name or description. Omitted fields are
// left unchanged.
func (s *Server) UpdateGroup(c *gin.Context) {
	var input UpdateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := s.groups.Update(c.Param("project"), input.FullPath, models.GroupUpdate{
		Name:        input.NewName,
		Description: input.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist group"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found or new name already taken"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteGroup deletes the group named by the "full_path" query. Contained
// objects are un-grouped, not deleted.
func (s *Server) DeleteGroup(c *gin.Context) {
	fullPath, ok := c.GetQuery("full_path")
	if !ok || fullPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_path query parameter is required"})
		return
	}

	removed, err := s.groups.Remove(c.Param("project"), fullPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist groups"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MoveObjectInput DTO for placing an object into a group
type MoveObjectInput struct {
	Object string `json:"object" binding:"required"`
	Group  string `json:"group" binding:"required"`
}

// MoveObjectToGroup puts an object into a group, removing it from any
// group it was in before.
func (s *Server) MoveObjectToGroup(c *gin.Context) {
	var input MoveObjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := s.groups.MoveObject(c.Param("project"), input.Object, input.Group)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist groups"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target group not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RemoveObjectInput DTO for un-grouping an object
type RemoveObjectInput struct {
	Object string `json:"object" binding:"required"`
}

// RemoveObjectFromGroup un-groups an object.
func (s *Server) RemoveObjectFromGroup(c *gin.Context) {
	var input RemoveObjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := s.groups.RemoveObject(c.Param("project"), input.Object)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist groups"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Object is not in any group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// FindGroupForObject returns the group containing the object named by the
// "object" query, or 404.
func (s *Server) FindGroupForObject(c *gin.Context) {
	object, ok := c.GetQuery("object")
	if !ok || object == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "object query parameter is required"})
		return
	}

	group := s.groups.FindGroupForObject(c.Param("project"), object)
	if group == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Object is not in any group"})
		return
	}

	c.JSON(http.StatusOK, group)
}

// RenameObjectInput DTO for following an object refactoring
type RenameObjectInput struct {
	OldFqn string `json:"old_fqn" binding:"required"`
	NewFqn string `json:"new_fqn" binding:"required"`
}

// RenameObject moves group membership and tag assignments to an object's
// new FQN after a refactoring.
func (s *Server) RenameObject(c *gin.Context) {
	var input RenameObjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := c.Param("project")
	groupsMoved, gerr := s.groups.RenameObject(project, input.OldFqn, input.NewFqn)
	tagsMoved, terr := s.tags.RenameObject(project, input.OldFqn, input.NewFqn)
	if gerr != nil || terr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist annotations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups_moved": groupsMoved, "tags_moved": tagsMoved})
}

// RemoveObject drops an object's group membership and tag assignments.
func (s *Server) RemoveObject(c *gin.Context) {
	project := c.Param("project")
	object := c.Param("object")

	ungrouped, gerr := s.groups.RemoveObject(project, object)
	untagged, terr := s.tags.RemoveObject(project, object)
	if gerr != nil || terr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist annotations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ungrouped": ungrouped, "untagged": untagged})
}

// Refresh drops the project's cached annotations so the next read loads
// the durable files again.
func (s *Server) Refresh(c *gin.Context) {
	project := c.Param("project")
	s.groups.Invalidate(project)
	s.tags.Invalidate(project)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
