// Package store holds the per-project annotation caches. Each service
// keeps one authoritative in-memory storage per project, loads it lazily
// from the durable document, writes every mutation straight back through
// the codec, and notifies listeners after each successful change.
package store

import (
	"log"
	"sync"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/codec"
	"github.com/DitriXNew/EDT-MCP-sub001/internal/models"
)

// GroupService is the project store cache for virtual folder groups.
//
// A single reader/writer mutex guards the cache map; entry counts and
// write frequency are low enough that per-entry locking would buy
// nothing. Callers must treat a returned storage as read-only — every
// mutation goes through the service so it hits the durable file and the
// notifier.
type GroupService struct {
	layout   Layout
	notifier *Notifier

	mu    sync.RWMutex
	cache map[string]*models.GroupStorage

	// onLoad is a test hook, invoked once per actual document load.
	onLoad func(project string)
}

// NewGroupService returns a group store over the given layout. The
// notifier may be shared with other services.
func NewGroupService(layout Layout, notifier *Notifier) *GroupService {
	return &GroupService{
		layout:   layout,
		notifier: notifier,
		cache:    make(map[string]*models.GroupStorage),
	}
}

// Notifier returns the change notifier this service fires.
func (s *GroupService) Notifier() *Notifier {
	return s.notifier
}

// Storage returns the project's groups, loading the durable document on
// first use. Concurrent callers for the same project trigger at most one
// load: an optimistic read is promoted to the exclusive lock and the
// cache is re-checked before loading.
func (s *GroupService) Storage(project string) *models.GroupStorage {
	s.mu.RLock()
	storage, ok := s.cache[project]
	s.mu.RUnlock()
	if ok {
		return storage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(project)
}

// Invalidate drops the cached entry; the next access reloads from the
// durable file. Called for explicit refreshes and by the external edit
// watcher.
func (s *GroupService) Invalidate(project string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, project)
}

// loadLocked resolves the cache entry under the exclusive lock,
// re-checking before reading the file. A broken or unreadable document
// degrades to an empty storage so the caller never fails.
func (s *GroupService) loadLocked(project string) *models.GroupStorage {
	if storage, ok := s.cache[project]; ok {
		return storage
	}
	if s.onLoad != nil {
		s.onLoad(project)
	}

	storage := models.NewGroupStorage()
	data, err := readDocument(s.layout.GroupsPath(project))
	if err != nil {
		log.Printf("load groups for %s: %v (starting empty)", project, err)
	} else if decoded, derr := codec.DecodeGroups(data); derr != nil {
		log.Printf("load groups for %s: %v (starting empty)", project, derr)
	} else {
		storage = decoded
	}
	s.cache[project] = storage
	return storage
}

// mutate applies fn to the project's storage and, when fn reports a
// change, persists the whole collection — one exclusive unit, so writers
// never interleave. The in-memory state stays authoritative even when the
// durable write fails; that failure is returned to the caller.
func (s *GroupService) mutate(project string, fn func(*models.GroupStorage) bool) (bool, error) {
	s.mu.Lock()
	storage := s.loadLocked(project)
	if !fn(storage) {
		s.mu.Unlock()
		return false, nil
	}
	err := s.persistLocked(project, storage)
	s.mu.Unlock()
	return true, err
}

func (s *GroupService) persistLocked(project string, storage *models.GroupStorage) error {
	data, err := codec.EncodeGroups(storage)
	if err != nil {
		return err
	}
	return writeDocument(s.layout.GroupsPath(project), data)
}

// Create adds a group under parentPath. It reports false when a group
// with the same full path already exists or the name is invalid. A
// non-nil error means the in-memory create succeeded but the durable
// write did not.
func (s *GroupService) Create(project, name, parentPath, description string) (*models.Group, bool, error) {
	var created *models.Group
	ok, err := s.mutate(project, func(storage *models.GroupStorage) bool {
		g, ok := storage.CreateGroup(name, parentPath, description)
		created = g
		return ok
	})
	if ok {
		s.notifier.CollectionChanged(project)
	}
	return created, ok, err
}

// Rename changes a group's name, cascading the new full path into nested
// groups.
func (s *GroupService) Rename(project, oldFullPath, newName string) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.GroupStorage) bool {
		return storage.RenameGroup(oldFullPath, newName)
	})
	if ok {
		s.notifier.CollectionChanged(project)
	}
	return ok, err
}

// Update applies a partial update to a group; a rename cascades into
// nested groups.
func (s *GroupService) Update(project, fullPath string, upd models.GroupUpdate) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.GroupStorage) bool {
		return storage.UpdateGroup(fullPath, upd)
	})
	if ok {
		s.notifier.CollectionChanged(project)
	}
	return ok, err
}

// Remove deletes a group. Contained objects revert to their natural
// location; nested groups are re-parented to the removed group's parent.
func (s *GroupService) Remove(project, fullPath string) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.GroupStorage) bool {
		return storage.RemoveGroup(fullPath)
	})
	if ok {
		s.notifier.CollectionChanged(project)
	}
	return ok, err
}

// MoveObject places an object into the target group, removing it from any
// group it was in before.
func (s *GroupService) MoveObject(project, objectFqn, targetFullPath string) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.GroupStorage) bool {
		return storage.MoveObjectToGroup(objectFqn, targetFullPath)
	})
	if ok {
		s.notifier.AssignmentsChanged(project, objectFqn)
	}
	return ok, err
}

// RemoveObject un-groups an object.
func (s *GroupService) RemoveObject(project, objectFqn string) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.GroupStorage) bool {
		return storage.RemoveObjectFromAllGroups(objectFqn)
	})
	if ok {
		s.notifier.AssignmentsChanged(project, objectFqn)
	}
	return ok, err
}

// RenameObject follows a refactoring: the object's FQN changed and its
// group membership must move with it.
func (s *GroupService) RenameObject(project, oldFqn, newFqn string) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.GroupStorage) bool {
		return storage.RenameObject(oldFqn, newFqn)
	})
	if ok {
		s.notifier.AssignmentsChanged(project, newFqn)
	}
	return ok, err
}

// Groups returns all groups of a project.
func (s *GroupService) Groups(project string) []*models.Group {
	return s.Storage(project).Groups
}

// GroupsAtPath returns the groups directly beneath path, in display order.
func (s *GroupService) GroupsAtPath(project, path string) []*models.Group {
	return s.Storage(project).GroupsAtPath(path)
}

// FindGroup returns the group at fullPath, or nil.
func (s *GroupService) FindGroup(project, fullPath string) *models.Group {
	return s.Storage(project).FindGroup(fullPath)
}

// FindGroupForObject returns the group containing the object, or nil.
func (s *GroupService) FindGroupForObject(project, objectFqn string) *models.Group {
	return s.Storage(project).FindGroupForObject(objectFqn)
}
