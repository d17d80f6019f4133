package models

import (
	"sort"
	"strings"
)

// Group is a virtual folder overlaying the flat object list of a project.
// Groups form a hierarchy through Path: a group's full path is its parent
// path plus its own name, and nested groups carry the parent's full path
// in their own Path field.
type Group struct {
	Name        string   `yaml:"name" json:"name"`
	Path        string   `yaml:"path,omitempty" json:"path"`
	Order       int      `yaml:"order" json:"order"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Children    []string `yaml:"children,omitempty" json:"children,omitempty"`
}

// FullPath returns the group's location in the hierarchy.
func (g *Group) FullPath() string {
	return JoinPath(g.Path, g.Name)
}

// JoinPath combines a parent path and a name into a full path.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// GroupStorage holds every virtual folder group of a single project.
type GroupStorage struct {
	Groups []*Group `yaml:"groups" json:"groups"`
}

// NewGroupStorage returns an empty group storage.
func NewGroupStorage() *GroupStorage {
	return &GroupStorage{}
}

// FindGroup returns the group at fullPath, or nil if none exists.
func (s *GroupStorage) FindGroup(fullPath string) *Group {
	for _, g := range s.Groups {
		if g.FullPath() == fullPath {
			return g
		}
	}
	return nil
}

// CreateGroup adds a new group under parentPath. It fails when the name
// contains a path separator or a group already exists at the computed
// full path. The new group is ordered after its existing siblings.
func (s *GroupStorage) CreateGroup(name, parentPath, description string) (*Group, bool) {
	if name == "" || strings.Contains(name, "/") {
		return nil, false
	}
	if s.FindGroup(JoinPath(parentPath, name)) != nil {
		return nil, false
	}

	order := 0
	for _, g := range s.Groups {
		if g.Path == parentPath && g.Order >= order {
			order = g.Order + 1
		}
	}

	group := &Group{
		Name:        name,
		Path:        parentPath,
		Order:       order,
		Description: description,
	}
	s.Groups = append(s.Groups, group)
	return group, true
}

// RenameGroup changes the name of the group at oldFullPath. It fails when
// the group does not exist, the new name is invalid, or another group
// already sits at the new full path. Nested groups move with their parent:
// every Path referencing the old full path is rewritten to the new one.
func (s *GroupStorage) RenameGroup(oldFullPath, newName string) bool {
	group := s.FindGroup(oldFullPath)
	if group == nil {
		return false
	}
	if newName == "" || strings.Contains(newName, "/") {
		return false
	}
	if newName == group.Name {
		return true
	}
	newFullPath := JoinPath(group.Path, newName)
	if s.FindGroup(newFullPath) != nil {
		return false
	}

	group.Name = newName
	s.rebasePaths(oldFullPath, newFullPath)
	return true
}

// GroupUpdate carries the fields of an UpdateGroup call. Nil fields are
// left unchanged.
type GroupUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateGroup applies upd to the group at fullPath. A rename follows the
// same cascade semantics as RenameGroup.
func (s *GroupStorage) UpdateGroup(fullPath string, upd GroupUpdate) bool {
	group := s.FindGroup(fullPath)
	if group == nil {
		return false
	}
	if upd.Name != nil && *upd.Name != group.Name {
		if !s.RenameGroup(fullPath, *upd.Name) {
			return false
		}
	}
	if upd.Description != nil {
		group.Description = *upd.Description
	}
	return true
}

// RemoveGroup deletes the group at fullPath. Contained objects are simply
// no longer grouped; they are not deleted. Nested groups are re-parented
// to the removed group's own parent so no group is left pointing at a
// path that no longer resolves. A re-parented group landing on the full
// path of an existing group is merged into it, so full paths stay unique.
func (s *GroupStorage) RemoveGroup(fullPath string) bool {
	for i, g := range s.Groups {
		if g.FullPath() == fullPath {
			s.Groups = append(s.Groups[:i], s.Groups[i+1:]...)
			s.rebasePaths(fullPath, g.Path)
			s.mergeDuplicates()
			return true
		}
	}
	return false
}

// mergeDuplicates folds groups sharing a full path into the first
// occurrence, combining their children as a set.
func (s *GroupStorage) mergeDuplicates() {
	seen := make(map[string]*Group, len(s.Groups))
	kept := s.Groups[:0]
	for _, g := range s.Groups {
		fp := g.FullPath()
		first, ok := seen[fp]
		if !ok {
			seen[fp] = g
			kept = append(kept, g)
			continue
		}
		for _, fqn := range g.Children {
			exists := false
			for _, c := range first.Children {
				if c == fqn {
					exists = true
					break
				}
			}
			if !exists {
				first.Children = append(first.Children, fqn)
			}
		}
	}
	s.Groups = kept
}

// rebasePaths rewrites every Path equal to oldBase, or nested beneath it,
// so that it hangs off newBase instead.
func (s *GroupStorage) rebasePaths(oldBase, newBase string) {
	for _, g := range s.Groups {
		switch {
		case g.Path == oldBase:
			g.Path = newBase
		case strings.HasPrefix(g.Path, oldBase+"/"):
			g.Path = JoinPath(newBase, strings.TrimPrefix(g.Path, oldBase+"/"))
		}
	}
}

// MoveObjectToGroup places an object into the group at targetFullPath,
// removing it from whichever group currently contains it. An object
// belongs to at most one group.
func (s *GroupStorage) MoveObjectToGroup(objectFqn, targetFullPath string) bool {
	target := s.FindGroup(targetFullPath)
	if target == nil {
		return false
	}
	s.RemoveObjectFromAllGroups(objectFqn)
	target.Children = append(target.Children, objectFqn)
	return true
}

// RemoveObjectFromAllGroups un-groups an object. It reports whether the
// object was found in any group.
func (s *GroupStorage) RemoveObjectFromAllGroups(objectFqn string) bool {
	removed := false
	for _, g := range s.Groups {
		for i, child := range g.Children {
			if child == objectFqn {
				g.Children = append(g.Children[:i], g.Children[i+1:]...)
				removed = true
				break
			}
		}
	}
	return removed
}

// FindGroupForObject returns the group containing the object, or nil.
func (s *GroupStorage) FindGroupForObject(objectFqn string) *Group {
	for _, g := range s.Groups {
		for _, child := range g.Children {
			if child == objectFqn {
				return g
			}
		}
	}
	return nil
}

// GroupsAtPath returns the groups whose parent path equals path, sorted
// by order and then name.
func (s *GroupStorage) GroupsAtPath(path string) []*Group {
	var result []*Group
	for _, g := range s.Groups {
		if g.Path == path {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// RenameObject rewrites an object's FQN wherever it appears in group
// children. Used when a refactoring changes the object's identity.
func (s *GroupStorage) RenameObject(oldFqn, newFqn string) bool {
	renamed := false
	for _, g := range s.Groups {
		for i, child := range g.Children {
			if child == oldFqn {
				g.Children[i] = newFqn
				renamed = true
			}
		}
	}
	return renamed
}
