package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDirName is the per-project directory holding annotation files.
	DefaultDirName = ".annotations"
	// GroupsFileName is the durable document of the group collection.
	GroupsFileName = "groups.yml"
	// TagsFileName is the durable document of the tag collection.
	TagsFileName = "tags.yml"
)

// Layout maps project names to the files of their annotation documents.
// Every project is a directory beneath the workspace root; its annotation
// files live in a fixed subdirectory so version control picks them up with
// the rest of the project.
type Layout struct {
	WorkspaceRoot string
	DirName       string
}

// NewLayout returns a layout rooted at workspaceRoot. An empty dirName
// falls back to DefaultDirName.
func NewLayout(workspaceRoot, dirName string) Layout {
	if dirName == "" {
		dirName = DefaultDirName
	}
	return Layout{WorkspaceRoot: workspaceRoot, DirName: dirName}
}

// ProjectDir returns the annotation directory of a project.
func (l Layout) ProjectDir(project string) string {
	return filepath.Join(l.WorkspaceRoot, project, l.DirName)
}

// GroupsPath returns the groups document path of a project.
func (l Layout) GroupsPath(project string) string {
	return filepath.Join(l.ProjectDir(project), GroupsFileName)
}

// TagsPath returns the tags document path of a project.
func (l Layout) TagsPath(project string) string {
	return filepath.Join(l.ProjectDir(project), TagsFileName)
}

// ProjectForPath maps a file path back to the project owning it. It
// reports false for paths that are not an annotation document beneath the
// workspace root.
func (l Layout) ProjectForPath(path string) (project, file string, ok bool) {
	file = filepath.Base(path)
	if file != GroupsFileName && file != TagsFileName {
		return "", "", false
	}
	dir := filepath.Dir(path)
	if filepath.Base(dir) != l.DirName {
		return "", "", false
	}
	projectDir := filepath.Dir(dir)
	rel, err := filepath.Rel(l.WorkspaceRoot, projectDir)
	if err != nil || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", "", false
	}
	return filepath.ToSlash(rel), file, true
}

// readDocument reads a durable document. A missing file is not an error;
// it simply means the project has no annotations yet.
func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeDocument writes a durable document atomically (temp file plus
// rename) so the watcher and version control never observe a torn file.
func writeDocument(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
