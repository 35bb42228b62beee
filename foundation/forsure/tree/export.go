// File: export.go
// Title: Structured Export
// Description: JSON and YAML encodings of a Document for tooling that
//              consumes the parsed tree.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-07
// Modified: 2026-10-07
//
// Change History:
// - 2026-10-07 v0.1.0: JSON and YAML export

package tree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ToJSON encodes doc as indented JSON
func ToJSON(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document as JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ToYAML encodes doc as YAML with two-space indentation
func ToYAML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode document as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode document as YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML decodes a document previously written with ToYAML
func FromYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode YAML document: %w", err)
	}
	return &doc, nil
}

// FromJSON decodes a document previously written with ToJSON
func FromJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON document: %w", err)
	}
	return &doc, nil
}
