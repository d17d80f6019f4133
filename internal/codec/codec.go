// Package codec converts annotation storages to and from their durable
// YAML documents. The documents are plain block-style mappings with no
// type metadata, so they stay diff-friendly and hand-editable; unknown
// fields are ignored and missing fields are defaulted, which keeps old
// and new files readable by either side.
package codec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/DitriXNew/EDT-MCP-sub001/internal/models"
)

const yamlIndent = 2

// DecodeGroups parses a groups document. Empty input yields a fresh
// empty storage rather than an error.
func DecodeGroups(data []byte) (*models.GroupStorage, error) {
	storage := models.NewGroupStorage()
	if len(bytes.TrimSpace(data)) == 0 {
		return storage, nil
	}
	if err := yaml.Unmarshal(data, storage); err != nil {
		return nil, fmt.Errorf("decode groups document: %w", err)
	}
	return storage, nil
}

// EncodeGroups renders a groups document in block layout.
func EncodeGroups(storage *models.GroupStorage) ([]byte, error) {
	return encode(storage, "encode groups document")
}

// DecodeTags parses a tags document. Empty input yields a fresh empty
// storage rather than an error.
func DecodeTags(data []byte) (*models.TagStorage, error) {
	storage := models.NewTagStorage()
	if len(bytes.TrimSpace(data)) == 0 {
		return storage, nil
	}
	if err := yaml.Unmarshal(data, storage); err != nil {
		return nil, fmt.Errorf("decode tags document: %w", err)
	}
	if storage.Assignments == nil {
		storage.Assignments = make(map[string][]string)
	}
	return storage, nil
}

// EncodeTags renders a tags document in block layout.
func EncodeTags(storage *models.TagStorage) ([]byte, error) {
	return encode(storage, "encode tags document")
}

func encode(v interface{}, what string) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return buf.Bytes(), nil
}
