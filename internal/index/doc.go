// Package index builds the organization's knowledge index document.
//
// The pipeline is: list every repository in the organization, keep the names
// that start with the configured prefix (minus any exclude globs), sort them,
// render the Markdown document, and compare it byte for byte with the stored
// file. The file is written, in a single commit, only when the two differ.
//
// Rendering uses text/template with the sprig function set. The built-in
// template produces the title, an MCP badge, a table of repositories with
// GitHub and MCP viewer links, and a "Last updated" line in UTC. A custom
// template file can be supplied; it receives the same Document value.
package index
