// Package internal runs template rules over source files.
//
// Engine compiles a set of template.Rule values once and applies them to
// each line of a file, honouring `parseit:ignore` directives found in the
// source. Results can be kept in a Cache keyed by file content and rule
// fingerprint, and Watch re-checks files as they are written.
//
// Usage:
//
//	engine, err := internal.NewEngine(rules, internal.WithLogger(logger))
//	if err != nil {
//	    // handle error
//	}
//
//	matches, err := engine.Run("path/to/file.txt")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, m := range matches {
//	    fmt.Printf("%s: %s\n", m.Start, m.Message)
//	}
package internal
