package store

import (
	"log"
	"sync"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/codec"
	"github.com/DitriXNew/EDT-MCP-sub001/internal/models"
)

// TagService is the project store cache for tags and their assignments.
// It follows the same concurrency discipline as GroupService: one
// reader/writer mutex over the cache map, double-checked loading, and
// write-through persistence inside the exclusive section.
type TagService struct {
	layout   Layout
	notifier *Notifier

	mu    sync.RWMutex
	cache map[string]*models.TagStorage

	// onLoad is a test hook, invoked once per actual document load.
	onLoad func(project string)
}

// NewTagService returns a tag store over the given layout.
func NewTagService(layout Layout, notifier *Notifier) *TagService {
	return &TagService{
		layout:   layout,
		notifier: notifier,
		cache:    make(map[string]*models.TagStorage),
	}
}

// Notifier returns the change notifier this service fires.
func (s *TagService) Notifier() *Notifier {
	return s.notifier
}

// Storage returns the project's tags, loading the durable document on
// first use. At most one load happens per project under concurrency.
func (s *TagService) Storage(project string) *models.TagStorage {
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
// durable file.
func (s *TagService) Invalidate(project string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, project)
}

func (s *TagService) loadLocked(project string) *models.TagStorage {
	if storage, ok := s.cache[project]; ok {
		return storage
	}
	if s.onLoad != nil {
		s.onLoad(project)
	}

	storage := models.NewTagStorage()
	data, err := readDocument(s.layout.TagsPath(project))
	if err != nil {
		log.Printf("load tags for %s: %v (starting empty)", project, err)
	} else if decoded, derr := codec.DecodeTags(data); derr != nil {
		log.Printf("load tags for %s: %v (starting empty)", project, derr)
	} else {
		storage = decoded
	}
	s.cache[project] = storage
	return storage
}

func (s *TagService) mutate(project string, fn func(*models.TagStorage) bool) (bool, error) {
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

func (s *TagService) persistLocked(project string, storage *models.TagStorage) error {
	data, err := codec.EncodeTags(storage)
	if err != nil {
		return err
	}
	return writeDocument(s.layout.TagsPath(project), data)
}

// Create adds a tag. It reports false when a tag with the same name
// already exists.
func (s *TagService) Create(project, name, color, description string) (*models.Tag, bool, error) {
	var created *models.Tag
	ok, err := s.mutate(project, func(storage *models.TagStorage) bool {
		t, ok := storage.CreateTag(name, color, description)
		created = t
		return ok
	})
	if ok {
		s.notifier.CollectionChanged(project)
	}
	return created, ok, err
}

// Update applies a partial update to a tag. A rename rewrites every
// assignment referencing the old name in the same step.
func (s *TagService) Update(project, name string, upd models.TagUpdate) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.TagStorage) bool {
		return storage.UpdateTag(name, upd)
	})
	if ok {
		s.notifier.CollectionChanged(project)
	}
	return ok, err
}

// Remove deletes a tag and strips it from every object.
func (s *TagService) Remove(project, name string) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.TagStorage) bool {
		return storage.RemoveTag(name)
	})
	if ok {
		s.notifier.CollectionChanged(project)
	}
	return ok, err
}

// Assign attaches a tag to an object. Assigning an already-assigned tag
// is a successful no-op.
func (s *TagService) Assign(project, objectFqn, tagName string) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.TagStorage) bool {
		return storage.AssignTag(objectFqn, tagName)
	})
	if ok {
		s.notifier.AssignmentsChanged(project, objectFqn)
	}
	return ok, err
}

// Unassign detaches a tag from an object.
func (s *TagService) Unassign(project, objectFqn, tagName string) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.TagStorage) bool {
		return storage.UnassignTag(objectFqn, tagName)
	})
	if ok {
		s.notifier.AssignmentsChanged(project, objectFqn)
	}
	return ok, err
}

// RemoveObject drops every assignment of a deleted object.
func (s *TagService) RemoveObject(project, objectFqn string) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.TagStorage) bool {
		return storage.RemoveObject(objectFqn)
	})
	if ok {
		s.notifier.AssignmentsChanged(project, objectFqn)
	}
	return ok, err
}

// RenameObject moves an object's assignments to its new FQN.
func (s *TagService) RenameObject(project, oldFqn, newFqn string) (bool, error) {
	ok, err := s.mutate(project, func(storage *models.TagStorage) bool {
		return storage.RenameObject(oldFqn, newFqn)
	})
	if ok {
		s.notifier.AssignmentsChanged(project, newFqn)
	}
	return ok, err
}

// Tags returns all tags of a project.
func (s *TagService) Tags(project string) []*models.Tag {
	return s.Storage(project).Tags
}

// FindTag returns the tag with the given name, or nil.
func (s *TagService) FindTag(project, name string) *models.Tag {
	return s.Storage(project).FindTag(name)
}

// ObjectTags returns the full tag records assigned to an object.
func (s *TagService) ObjectTags(project, objectFqn string) []*models.Tag {
	return s.Storage(project).ObjectTags(objectFqn)
}

// ObjectsByTag returns the FQNs carrying the tag, sorted.
func (s *TagService) ObjectsByTag(project, tagName string) []string {
	return s.Storage(project).ObjectsByTag(tagName)
}

// FindObjectsByTags returns every object carrying at least one of the
// given tags, with its matching tags attached.
func (s *TagService) FindObjectsByTags(project string, tagNames []string) map[string][]*models.Tag {
	return s.Storage(project).FindObjectsByTags(tagNames)
}
