package questionset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks JSON for .json files and YAML for everything else.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads, parses, and validates a question set file.
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read question set: %w", err)
	}
	set, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	set.Source = SourceFile
	if set.Title == "" {
		set.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return set, nil
}

// Parse decodes and validates a question document.
func Parse(data []byte, format Format) (Set, error) {
	var (
		doc Document
		err error
	)
	switch format {
	case FormatJSON:
		doc, err = parseJSON(data)
	case FormatYAML:
		doc, err = parseYAML(data)
	default:
		return Set{}, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return Set{}, err
	}
	return FromDocument(doc)
}

// FromDocument validates an already decoded document.
func FromDocument(doc Document) (Set, error) {
	questions, err := Normalize(doc)
	if err != nil {
		return Set{}, err
	}
	return Set{
		SetMetadata: SetMetadata{
			Title:         strings.TrimSpace(doc.Title),
			QuestionCount: len(questions),
		},
		Questions: questions,
	}, nil
}

func parseJSON(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{}, fmt.Errorf("parse json: document is empty")
	}

	var doc Document
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.DisallowUnknownFields()
	if trimmed[0] == '[' {
		if err := decoder.Decode(&doc.Questions); err != nil {
			return Document{}, fmt.Errorf("parse json: %w", err)
		}
	} else if err := decoder.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("parse json: %w", err)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Document{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return Document{}, fmt.Errorf("parse json: %w", err)
	}
	return doc, nil
}

func parseYAML(data []byte) (Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return Document{}, fmt.Errorf("parse yaml: document is empty")
		}
		return Document{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Document{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return Document{}, fmt.Errorf("parse yaml: %w", err)
	}
	return doc, nil
}
