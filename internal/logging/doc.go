// Package logger provides leveled console logging for knowledge-index commands.
//
// Two persistent flags control verbosity:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always written to stderr.
//
//	log := logger.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Listing repositories in %s", org)
//
// The root command builds the logger in PersistentPreRun and hands it to
// workflows through their options structs. Tests set Out and Err to buffers.
package logger
