package utils

import (
	"strings"

	"github.com/9Mirrors-Lab/knowledge-index/internal/ui"
)

// FormatList formats items as an indented bullet list, one per line.
func FormatList(items []string, formatter ui.Formatter) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString("    - ")
		b.WriteString(formatter.Sprint(item))
		b.WriteString("\n")
	}
	return b.String()
}
