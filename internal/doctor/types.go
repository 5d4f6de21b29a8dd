package doctor

// IssueCategory groups issues by type.
type IssueCategory string

const (
	// CategoryMetadata represents missing or invalid metadata files.
	CategoryMetadata IssueCategory = "metadata"
	// CategoryIndex represents catalog entries whose folder is gone or moved.
	CategoryIndex IssueCategory = "index"
	// CategoryOrphan represents projects on disk missing from the catalog.
	CategoryOrphan IssueCategory = "orphan"
)

// Fix actions applied by --fix.
const (
	FixNone        = ""
	FixRemoveEntry = "remove_entry"
	FixUpdatePath  = "update_path"
	FixAddEntry    = "add_entry"
)

// Issue represents a problem detected by doctor.
type Issue struct {
	Key         string        `json:"key"`                 // project id
	Path        string        `json:"path"`                // project root
	Description string        `json:"description"`         // human-readable description
	FixAction   string        `json:"fixAction,omitempty"` // what --fix would do
	Category    IssueCategory `json:"category"`
}

// IssueStats tracks counts by category.
type IssueStats struct {
	Projects        int `json:"projects"`        // project folders scanned
	MetadataValid   int `json:"metadataValid"`   // folders with a valid metadata.json
	MetadataIssues  int `json:"metadataIssues"`  // folders with missing or invalid metadata
	IndexEntries    int `json:"indexEntries"`    // catalog entries checked
	IndexStale      int `json:"indexStale"`      // entries whose folder is gone or moved
	OrphanUntracked int `json:"orphanUntracked"` // valid projects not in the catalog
}

// Report is the result of a Check.
type Report struct {
	Stats  IssueStats `json:"stats"`
	Issues []Issue    `json:"issues"`
}

// Fixable returns the issues --fix can act on.
func (r *Report) Fixable() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.FixAction != FixNone {
			out = append(out, issue)
		}
	}
	return out
}
