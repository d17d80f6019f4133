package models

import "sort"

// Tag is a colored label that can be attached to any number of objects.
type Tag struct {
	Name        string `yaml:"name" json:"name"`
	Color       string `yaml:"color,omitempty" json:"color,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// TagUpdate carries the fields of an UpdateTag call. Nil fields are left
// unchanged.
type TagUpdate struct {
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TagStorage holds a project's tags plus the object-to-tag assignments.
// Assignment lists are treated as sets: no duplicates, and an object with
// no remaining tags has no entry at all.
type TagStorage struct {
	Tags        []*Tag              `yaml:"tags" json:"tags"`
	Assignments map[string][]string `yaml:"assignments" json:"assignments"`
}

// NewTagStorage returns an empty tag storage.
func NewTagStorage() *TagStorage {
	return &TagStorage{Assignments: make(map[string][]string)}
}

// FindTag returns the tag with the given name, or nil. Names are
// case-sensitive.
func (s *TagStorage) FindTag(name string) *Tag {
	for _, t := range s.Tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// CreateTag adds a new tag. It fails when the name is empty or a tag with
// the same name already exists.
func (s *TagStorage) CreateTag(name, color, description string) (*Tag, bool) {
	if name == "" || s.FindTag(name) != nil {
		return nil, false
	}
	tag := &Tag{Name: name, Color: color, Description: description}
	s.Tags = append(s.Tags, tag)
	return tag, true
}

// UpdateTag applies upd to the tag named oldName. A rename fails when the
// new name is already taken by a different tag; on success every
// assignment referencing the old name is rewritten in the same step, so
// no object ever points at a tag that does not exist.
func (s *TagStorage) UpdateTag(oldName string, upd TagUpdate) bool {
	tag := s.FindTag(oldName)
	if tag == nil {
		return false
	}
	if upd.Name != nil && *upd.Name != oldName {
		if *upd.Name == "" || s.FindTag(*upd.Name) != nil {
			return false
		}
		tag.Name = *upd.Name
		for fqn, names := range s.Assignments {
			for i, n := range names {
				if n == oldName {
					s.Assignments[fqn][i] = *upd.Name
				}
			}
		}
	}
	if upd.Color != nil {
		tag.Color = *upd.Color
	}
	if upd.Description != nil {
		tag.Description = *upd.Description
	}
	return true
}

// RemoveTag deletes a tag and strips it from every assignment. Objects
// left with no tags lose their assignment entry entirely.
func (s *TagStorage) RemoveTag(name string) bool {
	found := false
	for i, t := range s.Tags {
		if t.Name == name {
			s.Tags = append(s.Tags[:i], s.Tags[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for fqn, names := range s.Assignments {
		kept := names[:0]
		for _, n := range names {
			if n != name {
				kept = append(kept, n)
			}
		}
		if len(kept) == 0 {
			delete(s.Assignments, fqn)
		} else {
			s.Assignments[fqn] = kept
		}
	}
	return true
}

// AssignTag attaches a tag to an object. It fails when the tag does not
// exist and is a no-op when the object already carries it.
func (s *TagStorage) AssignTag(objectFqn, tagName string) bool {
	if s.FindTag(tagName) == nil {
		return false
	}
	if s.Assignments == nil {
		s.Assignments = make(map[string][]string)
	}
	for _, n := range s.Assignments[objectFqn] {
		if n == tagName {
			return true
		}
	}
	s.Assignments[objectFqn] = append(s.Assignments[objectFqn], tagName)
	return true
}

// UnassignTag detaches a tag from an object. It reports whether the tag
// was present.
func (s *TagStorage) UnassignTag(objectFqn, tagName string) bool {
	names, ok := s.Assignments[objectFqn]
	if !ok {
		return false
	}
	for i, n := range names {
		if n == tagName {
			names = append(names[:i], names[i+1:]...)
			if len(names) == 0 {
				delete(s.Assignments, objectFqn)
			} else {
				s.Assignments[objectFqn] = names
			}
			return true
		}
	}
	return false
}

// ObjectTags resolves an object's assigned tag names to full tag records.
// Names that no longer resolve are dropped silently.
func (s *TagStorage) ObjectTags(objectFqn string) []*Tag {
	var result []*Tag
	for _, n := range s.Assignments[objectFqn] {
		if t := s.FindTag(n); t != nil {
			result = append(result, t)
		}
	}
	return result
}

// ObjectsByTag returns the FQNs of every object carrying the tag, sorted.
func (s *TagStorage) ObjectsByTag(tagName string) []string {
	var result []string
	for fqn, names := range s.Assignments {
		for _, n := range names {
			if n == tagName {
				result = append(result, fqn)
				break
			}
		}
	}
	sort.Strings(result)
	return result
}

// FindObjectsByTags returns every object carrying at least one of the
// given tags, each with all of its matching tags attached.
func (s *TagStorage) FindObjectsByTags(tagNames []string) map[string][]*Tag {
	wanted := make(map[string]bool, len(tagNames))
	for _, n := range tagNames {
		wanted[n] = true
	}
	result := make(map[string][]*Tag)
	for fqn, names := range s.Assignments {
		for _, n := range names {
			if wanted[n] {
				if t := s.FindTag(n); t != nil {
					result[fqn] = append(result[fqn], t)
				}
			}
		}
	}
	return result
}

// RemoveObject drops every assignment of an object. Used when the object
// itself is deleted from the project.
func (s *TagStorage) RemoveObject(objectFqn string) bool {
	if _, ok := s.Assignments[objectFqn]; !ok {
		return false
	}
	delete(s.Assignments, objectFqn)
	return true
}

// RenameObject moves an object's assignments to its new FQN. When the new
// FQN already has assignments the two sets are merged.
func (s *TagStorage) RenameObject(oldFqn, newFqn string) bool {
	names, ok := s.Assignments[oldFqn]
	if !ok {
		return false
	}
	delete(s.Assignments, oldFqn)
	for _, n := range names {
		exists := false
		for _, m := range s.Assignments[newFqn] {
			if m == n {
				exists = true
				break
			}
		}
		if !exists {
			s.Assignments[newFqn] = append(s.Assignments[newFqn], n)
		}
	}
	return true
}
