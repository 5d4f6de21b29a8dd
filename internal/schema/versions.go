package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Known schema versions.
const (
	// V0 is the unversioned Meta.Project.yaml record of the first tool. It is
	// never declared in a record; see FallbackVersion.
	V0 = "0.1.0"
	V1 = "1.0.0"
	V2 = "2.0.0"

	// Latest is written by default for new projects.
	Latest = V2
)

// Status values accepted by 2.0.0 records.
var Statuses = []string{"planning", "in-progress", "complete"}

// DefaultStatus is the status of a freshly scaffolded project.
const DefaultStatus = "planning"

// WorkTypes accepted by 2.0.0 records. Empty means unspecified.
var WorkTypes = []string{
	"", "app", "branding", "campaign", "ivr", "large-format", "motion",
	"other", "photo", "print", "social", "vehicle-wrap", "video", "web",
}

// LinkKeys are the allowed keys of the 2.0.0 "links" object.
var LinkKeys = []string{"live", "repo", "video"}

// NarrativeSections are the allowed keys of the 2.0.0 "narrative" object.
var NarrativeSections = []string{"problem", "actions", "results", "impact"}

func init() {
	register(&Schema{
		Version:     V0,
		Unversioned: true,
		Fields: []Field{
			{Name: "title", Kind: KindString},
			{Name: "client", Kind: KindString},
			{Name: "owner", Kind: KindString},
			{Name: "type", Kind: KindString},
			{Name: "channels", Kind: KindStringList},
			{Name: "status", Kind: KindString},
			{Name: "due_date", Kind: KindString},
			{Name: "rights", Kind: KindStringList},
			{Name: "approvals", Kind: KindStringList},
			{Name: "deliverables", Kind: KindStringList},
			{Name: "tags", Kind: KindStringList},
			{Name: "repo_links", Kind: KindStringList},
		},
	})

	// 1.0.0: the flat record written by the first generation of the tool.
	register(&Schema{
		Version:    V1,
		VersionKey: LegacyVersionKey,
		Fields: []Field{
			{Name: LegacyVersionKey, Kind: KindString},
			{Name: "title", Kind: KindNonEmptyString},
			{Name: "client", Kind: KindString},
			{Name: "type", Kind: KindString},
			{Name: "year", Kind: KindString},
			{Name: "owner", Kind: KindString},
			{Name: "tags", Kind: KindStringList},
			{Name: "status", Kind: KindString},
			{Name: "notes", Kind: KindString},
			{Name: "created_at", Kind: KindString},
		},
	})

	// 2.0.0: typed portfolio record.
	register(&Schema{
		Version:    V2,
		VersionKey: VersionKey,
		Fields: []Field{
			{Name: VersionKey, Kind: KindString},
			{Name: "id", Kind: KindNonEmptyString},
			{Name: "title", Kind: KindNonEmptyString},
			{Name: "organization", Kind: KindString},
			{Name: "workType", Kind: KindString, Enum: WorkTypes},
			{Name: "year", Kind: KindYear},
			{Name: "owner", Kind: KindString},
			{Name: "role", Kind: KindString},
			{Name: "status", Kind: KindString, Enum: Statuses},
			{Name: "dueDate", Kind: KindString},
			{Name: "categories", Kind: KindStringList},
			{Name: "skills", Kind: KindStringList},
			{Name: "tools", Kind: KindStringList},
			{Name: "tags", Kind: KindStringList},
			{Name: "highlights", Kind: KindStringList},
			{Name: "links", Kind: KindStringMap, Keys: LinkKeys},
			{Name: "narrative", Kind: KindStringMap, Keys: NarrativeSections},
			{Name: "privacy", Kind: KindObject, Fields: []Field{
				{Name: "nda", Kind: KindBool},
			}},
			{Name: "createdAt", Kind: KindTimestamp},
			{Name: "updatedAt", Kind: KindTimestamp},
		},
	})
}

// Inputs are the caller-supplied values a default record is built from.
type Inputs struct {
	ID           string
	Title        string
	Organization string
	WorkType     string
	Year         string
	Owner        string
	Role         string
	Status       string
	DueDate      string
	Notes        string
	Categories   []string
	Skills       []string
	Tools        []string
	Tags         []string
	Highlights   []string
	Links        map[string]string
	NDA          bool
	Now          time.Time
}

// DefaultRecord builds a record for version from in, filling every
// required field. List fields drop empty entries; timestamps use in.Now
// (or the current time) in UTC.
func DefaultRecord(version string, in Inputs) (Record, error) {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	stamp := now.UTC().Format(TimestampLayout)

	status := in.Status
	if status == "" {
		status = DefaultStatus
	}

	switch version {
	case V1:
		return Record{
			LegacyVersionKey: V1,
			"title":          in.Title,
			"client":         in.Organization,
			"type":           in.WorkType,
			"year":           in.Year,
			"owner":          in.Owner,
			"tags":           CleanList(in.Tags),
			"status":         status,
			"notes":          in.Notes,
			"created_at":     stamp,
		}, nil

	case V2:
		links := make(map[string]any, len(LinkKeys))
		for _, k := range LinkKeys {
			links[k] = in.Links[k]
		}
		narrative := make(map[string]any, len(NarrativeSections))
		for _, k := range NarrativeSections {
			narrative[k] = ""
		}
		return Record{
			VersionKey:     V2,
			"id":           in.ID,
			"title":        in.Title,
			"organization": in.Organization,
			"workType":     in.WorkType,
			"year":         in.Year,
			"owner":        in.Owner,
			"role":         in.Role,
			"status":       status,
			"dueDate":      in.DueDate,
			"categories":   CleanList(in.Categories),
			"skills":       CleanList(in.Skills),
			"tools":        CleanList(in.Tools),
			"tags":         CleanList(in.Tags),
			"highlights":   CleanList(in.Highlights),
			"links":        links,
			"narrative":    narrative,
			"privacy":      map[string]any{"nda": in.NDA},
			"createdAt":    stamp,
			"updatedAt":    stamp,
		}, nil
	}

	return nil, fmt.Errorf("unknown schema version %q", version)
}

// CleanList trims entries and drops empty ones. Duplicates are kept.
// The result is never nil so it encodes as [].
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// String returns the string value at key, or "".
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// List returns the string list at key, skipping non-string entries.
func (r Record) List(key string) []string {
	items, _ := asList(r[key])
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Version returns the declared schema version, or "".
func (r Record) Version() string {
	v, _, _ := VersionOf(r)
	return v
}

// Marshal encodes r as indented JSON with sorted keys and a trailing newline.
func Marshal(r Record) ([]byte, error) {
	data, err := json.MarshalIndent(map[string]any(r), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
