package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the metadata file written into every project root.
const FileName = "metadata.json"

// LegacyFileName is the metadata file of the first tool generation.
// Despite the extension it usually holds JSON, which YAML also accepts.
const LegacyFileName = "Meta.Project.yaml"

// ReadFile decodes the metadata document at path.
// .yaml and .yml files are decoded as YAML, everything else as JSON.
func ReadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses data according to ext (".json", ".yaml", ".yml").
func Decode(data []byte, ext string) (Record, error) {
	var raw any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("metadata must be an object, got %T", raw)
	}
	return Record(obj), nil
}

// FallbackVersion returns the schema an unversioned record at path is
// checked against: V0 for LegacyFileName, otherwise none.
func FallbackVersion(path string) string {
	if strings.EqualFold(filepath.Base(path), LegacyFileName) {
		return V0
	}
	return ""
}

// ValidateFile reads the metadata at path and validates it.
// The error is non-nil only when the file cannot be read or parsed.
func ValidateFile(path string) ([]Violation, error) {
	rec, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ValidateAs(rec, FallbackVersion(path)), nil
}
