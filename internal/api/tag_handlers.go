package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/models"
)

// CreateTagInput DTO for creating a new tag
type CreateTagInput struct {
	Name        string `json:"name" binding:"required"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// CreateTag creates a new tag.
func (s *Server) CreateTag(c *gin.Context) {
	var input CreateTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, ok, err := s.tags.Create(c.Param("project"), input.Name, input.Color, input.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist tag", "tag": tag})
		return
	}
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "A tag with this name already exists"})
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// ListTags retrieves all tags of a project.
func (s *Server) ListTags(c *gin.Context) {
	tags := s.tags.Tags(c.Param("project"))
	if tags == nil {
		tags = []*models.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

// UpdateTagInput DTO for a partial tag update
type UpdateTagInput struct {
	NewName     *string `json:"new_name"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

// UpdateTag updates a tag's name, color or description. Renames rewrite
// every assignment in the same operation.
func (s *Server) UpdateTag(c *gin.Context) {
	var input UpdateTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := s.tags.Update(c.Param("project"), c.Param("name"), models.TagUpdate{
		Name:        input.NewName,
		Color:       input.Color,
		Description: input.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist tags"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found or new name already taken"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteTag deletes a tag and strips it from every object.
func (s *Server) DeleteTag(c *gin.Context) {
	ok, err := s.tags.Remove(c.Param("project"), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist tags"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ObjectsByTag lists the FQNs carrying a tag.
func (s *Server) ObjectsByTag(c *gin.Context) {
	objects := s.tags.ObjectsByTag(c.Param("project"), c.Param("name"))
	if objects == nil {
		objects = []string{}
	}
	c.JSON(http.StatusOK, objects)
}

// AssignTagInput DTO for attaching or detaching a tag
type AssignTagInput struct {
	Object string `json:"object" binding:"required"`
	Tag    string `json:"tag" binding:"required"`
}

// AssignTag attaches a tag to an object.
func (s *Server) AssignTag(c *gin.Context) {
	var input AssignTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := s.tags.Assign(c.Param("project"), input.Object, input.Tag)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist assignments"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag does not exist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UnassignTag detaches a tag from an object.
func (s *Server) UnassignTag(c *gin.Context) {
	var input AssignTagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := s.tags.Unassign(c.Param("project"), input.Object, input.Tag)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist assignments"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "The object does not carry this tag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ObjectTags returns the full tag records assigned to an object.
func (s *Server) ObjectTags(c *gin.Context) {
	tags := s.tags.ObjectTags(c.Param("project"), c.Param("object"))
	if tags == nil {
		tags = []*models.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

// FindObjectsByTagsInput DTO for the union query
type FindObjectsByTagsInput struct {
	Tags []string `json:"tags" binding:"required"`
}

// FindObjectsByTags returns every object carrying at least one of the
// given tags, with its matching tags attached.
func (s *Server) FindObjectsByTags(c *gin.Context) {
	var input FindObjectsByTagsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.tags.FindObjectsByTags(c.Param("project"), input.Tags))
}
