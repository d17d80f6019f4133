package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLayoutPaths(t *testing.T) {
	l := NewLayout("/work", "")
	if l.DirName != DefaultDirName {
		t.Errorf("DirName = %q, want %q", l.DirName, DefaultDirName)
	}
	want := filepath.Join("/work", "erp", ".annotations", "groups.yml")
	if got := l.GroupsPath("erp"); got != want {
		t.Errorf("GroupsPath = %q, want %q", got, want)
	}
	want = filepath.Join("/work", "erp", ".annotations", "tags.yml")
	if got := l.TagsPath("erp"); got != want {
		t.Errorf("TagsPath = %q, want %q", got, want)
	}
}

func TestProjectForPath(t *testing.T) {
	l := NewLayout(filepath.FromSlash("/work"), "")

	tests := []struct {
		path    string
		project string
		file    string
		ok      bool
	}{
		{"/work/erp/.annotations/groups.yml", "erp", GroupsFileName, true},
		{"/work/erp/.annotations/tags.yml", "erp", TagsFileName, true},
		{"/work/erp/.annotations/groups.yml.tmp", "", "", false},
		{"/work/erp/.annotations/other.yml", "", "", false},
		{"/work/erp/groups.yml", "", "", false},
		{"/elsewhere/erp/.annotations/groups.yml", "", "", false},
		{"/work/.annotations/groups.yml", "", "", false},
	}
	for _, tt := range tests {
		project, file, ok := l.ProjectForPath(filepath.FromSlash(tt.path))
		if ok != tt.ok || project != tt.project || (ok && file != tt.file) {
			t.Errorf("ProjectForPath(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.path, project, file, ok, tt.project, tt.file, tt.ok)
		}
	}
}

func TestWriteDocumentAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "groups.yml")

	if err := writeDocument(path, []byte("groups: []\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := readDocument(path)
	if err != nil || string(data) != "groups: []\n" {
		t.Fatalf("read back = %q, %v", data, err)
	}
	// No leftover temp file
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	// Missing documents read as empty, not as an error
	data, err = readDocument(filepath.Join(dir, "missing.yml"))
	if err != nil || data != nil {
		t.Errorf("missing document = %q, %v", data, err)
	}
}
