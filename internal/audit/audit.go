package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/9Mirrors-Lab/knowledge-index/internal/utils"

	"github.com/google/uuid"
)

// Entry is one line of the run report.
type Entry struct {
	Timestamp string `json:"ts"`     // RFC3339 with microseconds.
	RunID     string `json:"run_id"` // Random UUID per invocation.
	Operation string `json:"op"`     // Command name.

	// Optional fields depending on operation.
	Org          string `json:"org,omitempty"`
	Repo         string `json:"repo,omitempty"`
	Path         string `json:"path,omitempty"`
	ListedCount  int    `json:"listed_count,omitempty"`  // For sync.
	IndexedCount int    `json:"indexed_count,omitempty"` // For sync.
	Changed      bool   `json:"changed,omitempty"`       // For sync.
	DryRun       bool   `json:"dry_run,omitempty"`       // For sync.
	Commit       string `json:"commit,omitempty"`        // For sync when written.
	Event        string `json:"event,omitempty"`         // For dispatch.
	Error        string `json:"error,omitempty"`
}

// NewEntry returns an entry for op with a fresh run ID.
func NewEntry(op string) Entry {
	return Entry{
		RunID:     uuid.NewString(),
		Operation: op,
	}
}

// Log appends entry to the JSON Lines report at path, creating the file and
// its directory when needed.
func Log(path string, entry Entry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	path, err := utils.ExpandHome(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	// #nosec G302 -- reports hold no secrets and are meant to be shared with CI logs.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding report entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// ReadEntries reads all entries from the report at path.
// Returns an empty slice if the report doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	path, err := utils.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into report entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip partial writes.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
