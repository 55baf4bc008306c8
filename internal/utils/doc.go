// Package utils provides small helpers shared by the cmd and workflow layers.
//
// # Filesystem Utilities
//
//   - ExpandHome: resolves a leading ~/ in configured paths
//   - LoosePermissions: flags key files readable by group or others
//
// # Terminal Utilities
//
//   - IsTerminal, IsStdoutTerminal: decide whether spinners are drawn
//
// # I/O Utilities
//
//   - ReadStdin: reads piped key material
//
// # String Utilities
//
//   - FormatList: renders repository names or paths as a bullet list
package utils
