// Package schema defines the versioned shape of project metadata records
// and a validator that checks a record against the version it declares.
//
// A record names its version under "schemaVersion" (2.x) or
// "schema_version" (1.x). Validation looks up the rule set for that
// version; the same document may be valid under one version and invalid
// under another. Validation never mutates the record and never upgrades it.
package schema

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Record is a decoded metadata document.
// Values use JSON shapes: string, bool, []any / []string, map[string]any.
type Record map[string]any

// Version keys, newest first.
const (
	VersionKey       = "schemaVersion"
	LegacyVersionKey = "schema_version"
)

// TimestampLayout is the UTC timestamp format for createdAt/updatedAt.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Kind is the expected type of a field.
type Kind int

const (
	KindString Kind = iota
	KindNonEmptyString
	KindYear
	KindTimestamp
	KindStringList
	KindBool
	KindStringMap // closed set of keys, string values, each optional
	KindObject    // nested fields, extra keys allowed
)

// String returns the JSON-ish name used in violation messages.
func (k Kind) String() string {
	switch k {
	case KindString, KindNonEmptyString, KindYear, KindTimestamp:
		return "string"
	case KindStringList:
		return "list"
	case KindBool:
		return "bool"
	case KindStringMap, KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Field describes one required key.
type Field struct {
	Name   string
	Kind   Kind
	Enum   []string // allowed string values, when set
	Keys   []string // allowed keys for KindStringMap
	Fields []Field  // nested fields for KindObject
}

// Schema is the rule set for one schema version.
type Schema struct {
	Version     string
	// VersionKey is the key records of this version must declare it under.
	// Empty for Unversioned schemas.
	VersionKey  string
	// Unversioned schemas describe records that carry no version key. They
	// are only selected through a fallback and never written.
	Unversioned bool
	Fields      []Field
}

// ViolationKind classifies a validation failure.
type ViolationKind string

const (
	MissingKey       ViolationKind = "missing_key"
	WrongType        ViolationKind = "wrong_type"
	InvalidValue     ViolationKind = "invalid_value"
	UnknownKey       ViolationKind = "unknown_key"
	MissingVersion   ViolationKind = "missing_version"
	UnknownVersion   ViolationKind = "unknown_version"
	MisplacedVersion ViolationKind = "misplaced_version"
)

// Violation is one problem found in a record.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Key     string        `json:"key"`
	Message string        `json:"message"`
}

func (v Violation) String() string {
	return v.Message
}

var registry = map[string]*Schema{}

func register(s *Schema) {
	registry[s.Version] = s
}

// Lookup returns the schema for a version records can declare.
func Lookup(version string) (*Schema, bool) {
	s, ok := registry[version]
	if !ok || s.Unversioned {
		return nil, false
	}
	return s, true
}

// Versions returns the schema versions records can declare, sorted.
func Versions() []string {
	versions := make([]string, 0, len(registry))
	for v, s := range registry {
		if !s.Unversioned {
			versions = append(versions, v)
		}
	}
	slices.Sort(versions)
	return versions
}

// VersionOf returns the version a record declares and the key it used.
func VersionOf(rec Record) (version, key string, ok bool) {
	for _, k := range []string{VersionKey, LegacyVersionKey} {
		if v, exists := rec[k]; exists {
			s, isString := v.(string)
			return s, k, isString
		}
	}
	return "", "", false
}

// Validate checks rec against the schema its version key selects.
// An empty result means valid.
func Validate(rec Record) []Violation {
	return ValidateAs(rec, "")
}

// ValidateAs is Validate with a fallback version for records that declare
// none. The record itself is left untouched.
func ValidateAs(rec Record, fallback string) []Violation {
	version, key, ok := VersionOf(rec)
	switch {
	case key == "" && fallback != "":
		s, found := registry[fallback]
		if !found {
			return []Violation{{
				Kind:    UnknownVersion,
				Key:     VersionKey,
				Message: fmt.Sprintf("unknown schema version %q", fallback),
			}}
		}
		return s.Validate(rec)
	case key == "":
		return []Violation{{
			Kind:    MissingVersion,
			Key:     VersionKey,
			Message: fmt.Sprintf("missing key: %s (or %s)", VersionKey, LegacyVersionKey),
		}}
	case !ok:
		return []Violation{{
			Kind:    WrongType,
			Key:     key,
			Message: fmt.Sprintf("key %s should be string", key),
		}}
	}

	s, found := Lookup(version)
	if !found {
		return []Violation{{
			Kind:    UnknownVersion,
			Key:     key,
			Message: fmt.Sprintf("unknown schema version %q (known: %s)", version, strings.Join(Versions(), ", ")),
		}}
	}
	if s.VersionKey == "" || key == s.VersionKey {
		return s.Validate(rec)
	}

	out := []Violation{{
		Kind:    MisplacedVersion,
		Key:     key,
		Message: fmt.Sprintf("version %s must be declared under %s, not %s", version, s.VersionKey, key),
	}}
	for _, v := range s.Validate(rec) {
		if v.Kind == MissingKey && v.Key == s.VersionKey {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Validate checks rec against s regardless of the version it declares.
func (s *Schema) Validate(rec Record) []Violation {
	return checkFields("", s.Fields, map[string]any(rec))
}

func checkFields(prefix string, fields []Field, obj map[string]any) []Violation {
	var out []Violation
	for _, f := range fields {
		key := joinKey(prefix, f.Name)
		val, exists := obj[f.Name]
		if !exists {
			out = append(out, Violation{Kind: MissingKey, Key: key, Message: "missing key: " + key})
			continue
		}
		out = append(out, checkValue(key, f, val)...)
	}
	return out
}

func checkValue(key string, f Field, val any) []Violation {
	wrongType := []Violation{{
		Kind:    WrongType,
		Key:     key,
		Message: fmt.Sprintf("key %s should be %s", key, f.Kind),
	}}

	switch f.Kind {
	case KindString, KindNonEmptyString, KindYear, KindTimestamp:
		s, ok := val.(string)
		if !ok {
			return wrongType
		}
		return checkString(key, f, s)

	case KindBool:
		if _, ok := val.(bool); !ok {
			return wrongType
		}

	case KindStringList:
		items, ok := asList(val)
		if !ok {
			return wrongType
		}
		var out []Violation
		for i, item := range items {
			itemKey := fmt.Sprintf("%s[%d]", key, i)
			s, ok := item.(string)
			if !ok {
				out = append(out, Violation{Kind: WrongType, Key: itemKey, Message: fmt.Sprintf("key %s should be string", itemKey)})
				continue
			}
			if s == "" || strings.TrimSpace(s) != s {
				out = append(out, Violation{Kind: InvalidValue, Key: itemKey, Message: fmt.Sprintf("key %s must be a non-empty trimmed string", itemKey)})
			}
		}
		return out

	case KindStringMap:
		obj, ok := asObject(val)
		if !ok {
			return wrongType
		}
		var out []Violation
		for _, k := range sortedKeys(obj) {
			subKey := joinKey(key, k)
			if !slices.Contains(f.Keys, k) {
				out = append(out, Violation{Kind: UnknownKey, Key: subKey, Message: fmt.Sprintf("unknown key %s (allowed: %s)", subKey, strings.Join(f.Keys, ", "))})
				continue
			}
			if _, ok := obj[k].(string); !ok {
				out = append(out, Violation{Kind: WrongType, Key: subKey, Message: fmt.Sprintf("key %s should be string", subKey)})
			}
		}
		return out

	case KindObject:
		obj, ok := asObject(val)
		if !ok {
			return wrongType
		}
		return checkFields(key, f.Fields, obj)
	}
	return nil
}

func checkString(key string, f Field, s string) []Violation {
	invalid := func(msg string) []Violation {
		return []Violation{{Kind: InvalidValue, Key: key, Message: fmt.Sprintf("key %s %s, got %q", key, msg, s)}}
	}

	switch f.Kind {
	case KindNonEmptyString:
		if strings.TrimSpace(s) == "" {
			return invalid("must not be empty")
		}
	case KindYear:
		if len(s) != 4 || strings.Trim(s, "0123456789") != "" {
			return invalid("must be a four digit year")
		}
	case KindTimestamp:
		if _, err := time.Parse(TimestampLayout, s); err != nil {
			return invalid("must be a UTC timestamp (" + TimestampLayout + ")")
		}
	}

	if len(f.Enum) > 0 && !slices.Contains(f.Enum, s) {
		return invalid("must be one of " + strings.Join(quoteAll(f.Enum), ", "))
	}
	return nil
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
