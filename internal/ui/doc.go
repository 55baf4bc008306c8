// Package ui provides semantic text formatting for CLI output.
//
// Formatters colorize content when the terminal supports it. When NO_COLOR
// is set or colors are unavailable, text decorations are used instead:
//
//	ui.Code.Sprint("knowledge-index sync")  // `knowledge-index sync`
//	ui.Repo.Sprint("know-go")               // 'know-go'
//	ui.Highlight.Sprint("12345")            // '12345'
//	ui.Muted.Sprint("dry run")              // (dry run)
//
// Path, Success, Error, Warning and Info carry no decoration without color.
// Redact masks secret values before they are printed.
package ui
