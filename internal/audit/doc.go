// Package audit writes the optional run report.
//
// When a command is given --report FILE, one entry describing the run is
// appended to FILE. Nothing is written otherwise.
//
// # Report Format
//
// The report is JSON Lines (one JSON object per line). Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - A random run ID, so entries from the same CI job can be correlated
//   - Operation name (sync, dispatch)
//   - Operation-specific details (org, repository counts, commit SHA, etc.)
//
// # Usage
//
//	entry := audit.NewEntry("sync")
//	entry.Org = cfg.Index.Organization
//	entry.IndexedCount = len(result.Repositories)
//	if err := audit.Log(reportPath, entry); err != nil {
//	    log.Warnf("could not write report: %v", err)
//	}
//
// # Failure Handling
//
// Log returns its error, but callers treat the report as best-effort: the
// index has already been written by the time the entry is recorded.
//
// # Reading Reports
//
// Use ReadEntries to parse a report. Malformed lines are skipped to tolerate
// partial writes.
package audit
