package index

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Record is one repository row in the index.
type Record struct {
	Name      string `json:"name"`
	SourceURL string `json:"source_url"`
	ViewerURL string `json:"viewer_url"`
}

// Links holds the base URLs records are derived from.
type Links struct {
	SourceBaseURL string
	ViewerBaseURL string
}

// Select keeps names that start with prefix and match none of the exclude
// patterns, sorted ascending. Patterns use doublestar glob syntax.
func Select(names []string, prefix string, exclude []string) ([]string, error) {
	var selected []string
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		skip, err := excluded(name, exclude)
		if err != nil {
			return nil, err
		}
		if !skip {
			selected = append(selected, name)
		}
	}
	sort.Strings(selected)
	return selected, nil
}

func excluded(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// ValidateExclude reports the first malformed exclude pattern.
func ValidateExclude(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// Records builds a Record for each name in org.
func Records(org string, names []string, links Links) []Record {
	records := make([]Record, 0, len(names))
	for _, name := range names {
		records = append(records, Record{
			Name:      name,
			SourceURL: joinURL(links.SourceBaseURL, org, name),
			ViewerURL: joinURL(links.ViewerBaseURL, org, name),
		})
	}
	return records
}

func joinURL(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}
