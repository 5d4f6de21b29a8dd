// Package identifier composes project folder names from descriptive input.
package identifier

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/raphi011/folio/internal/slug"
)

// Separator joins the identifier parts.
const Separator = "_"

// Slug length limits keep folder names scannable.
const (
	TitleMaxLen        = 36
	OrganizationMaxLen = 24
)

// DateLayout is the ISO date format accepted for the date prefix.
const DateLayout = "2006-01-02"

var yearRegex = regexp.MustCompile(`^[0-9]{4}$`)

// ErrInvalid is returned by Validate for malformed identifiers.
var ErrInvalid = errors.New("invalid project identifier")

// Build assembles "<year-or-date>_<org-slug>_<title-slug>", omitting parts
// whose source is empty. The date wins over the year when both are set.
// Uniqueness is not checked here.
func Build(title, organization, year, date string) string {
	var parts []string

	switch {
	case strings.TrimSpace(date) != "":
		parts = append(parts, strings.TrimSpace(date))
	case strings.TrimSpace(year) != "":
		parts = append(parts, strings.TrimSpace(year))
	}

	if strings.TrimSpace(organization) != "" {
		parts = append(parts, slug.Normalize(organization, OrganizationMaxLen))
	}

	parts = append(parts, slug.Normalize(title, TitleMaxLen))

	return strings.Join(parts, Separator)
}

// ValidateYear checks that year is empty or four digits.
func ValidateYear(year string) error {
	if year == "" || yearRegex.MatchString(year) {
		return nil
	}
	return fmt.Errorf("invalid year %q: must be four digits", year)
}

// ValidateDate checks that date is empty or an ISO date (YYYY-MM-DD).
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: must be YYYY-MM-DD", date)
	}
	return nil
}

// Validate reports whether id can be used as a single path segment.
func Validate(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty", ErrInvalid)
	case id == "." || id == "..":
		return fmt.Errorf("%w: %q", ErrInvalid, id)
	case strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalid, id)
	case strings.Trim(id, "-_") != id:
		return fmt.Errorf("%w: %q has leading or trailing separators", ErrInvalid, id)
	}
	return nil
}
