// Package api exposes the annotation store over HTTP for editor
// integrations that cannot speak MCP.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/store"
)

// Server holds the annotation services behind the HTTP handlers.
type Server struct {
	groups *store.GroupService
	tags   *store.TagService
}

// NewRouter builds the gin engine with all annotation routes.
func NewRouter(groups *store.GroupService, tags *store.TagService) *gin.Engine {
	s := &Server{groups: groups, tags: tags}

	r := gin.Default()
	v1 := r.Group("/api/v1/projects/:project")
	{
		v1.GET("/groups", s.ListGroups)
		v1.POST("/groups", s.CreateGroup)
		v1.PATCH("/groups", s.UpdateGroup)
		v1.DELETE("/groups", s.DeleteGroup)
		v1.POST("/groups/move-object", s.MoveObjectToGroup)
		v1.POST("/groups/remove-object", s.RemoveObjectFromGroup)
		v1.GET("/groups/for-object", s.FindGroupForObject)

		v1.GET("/tags", s.ListTags)
		v1.POST("/tags", s.CreateTag)
		v1.PATCH("/tags/:name", s.UpdateTag)
		v1.DELETE("/tags/:name", s.DeleteTag)
		v1.GET("/tags/:name/objects", s.ObjectsByTag)

		v1.POST("/assignments", s.AssignTag)
		v1.DELETE("/assignments", s.UnassignTag)
		v1.GET("/objects/:object/tags", s.ObjectTags)
		v1.POST("/objects/search-by-tags", s.FindObjectsByTags)

		v1.POST("/objects/rename", s.RenameObject)
		v1.DELETE("/objects/:object", s.RemoveObject)

		v1.POST("/refresh", s.Refresh)
	}
	return r
}
