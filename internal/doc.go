// Package internal runs a token registry over source files.
//
// Engine tokenizes one file or buffer at a time and reports input that no
// token definition matches as an Issue instead of failing. Cache keeps
// results on disk between runs, keyed by file content and the configuration
// files the registry was built from. Watcher re-runs the engine as files
// change, and the Format functions render results for a terminal.
package internal
