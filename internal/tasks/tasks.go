// Package tasks turns a social plan CSV into a markdown checklist.
package tasks

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Columns are the header names a plan must contain. Extra columns are ignored.
var Columns = []string{"platform", "asset", "ratio", "date", "copy"}

// ErrMissingColumn is returned when the header lacks one of Columns.
var ErrMissingColumn = errors.New("missing column")

// Task is one planned post.
type Task struct {
	Platform string `json:"platform"`
	Asset    string `json:"asset"`
	Ratio    string `json:"ratio"`
	Date     string `json:"date"`
	Copy     string `json:"copy"`
}

// String renders t as an unchecked markdown task.
func (t Task) String() string {
	return fmt.Sprintf("- [ ] %s %s (%s) on %s: %s", t.Platform, t.Asset, t.Ratio, t.Date, t.Copy)
}

// Parse reads a plan. Header names are matched case-insensitively; short
// rows leave the missing cells empty.
func Parse(r io.Reader) ([]Task, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w %q: empty file", ErrMissingColumn, Columns[0])
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}
	for _, col := range Columns {
		if _, ok := pos[col]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	var tasks []Task
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		cell := func(col string) string {
			if i := pos[col]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		tasks = append(tasks, Task{
			Platform: cell("platform"),
			Asset:    cell("asset"),
			Ratio:    cell("ratio"),
			Date:     cell("date"),
			Copy:     cell("copy"),
		})
	}
	return tasks, nil
}

// ParseFile reads the plan at path.
func ParseFile(path string) ([]Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tasks, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

// Render writes one line per task.
func Render(w io.Writer, tasks []Task) error {
	for _, t := range tasks {
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return err
		}
	}
	return nil
}
