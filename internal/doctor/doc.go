// Package doctor checks the health of the projects directory and the
// project catalog, and optionally repairs the catalog.
//
// The doctor package detects:
//
//   - Metadata issues: project folders without metadata.json, or whose
//     metadata.json fails schema validation. These are reported only.
//
//   - Index issues: catalog entries whose folder no longer exists, or
//     exists under the projects directory at a different path.
//
//   - Orphan issues: valid projects on disk that are missing from the
//     catalog.
//
// # Usage
//
//	report, err := doctor.Check(ctx, cfg.ProjectsDir, ix)
//	fixed, failed := doctor.Fix(ctx, ix, report.Issues)
//
// Run combines both and prints a summary through the output printer.
//
// Each [Issue] includes a description and, when the catalog can be
// repaired, a fix action.
package doctor
