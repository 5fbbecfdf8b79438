// Package processors routes files to content processors and hosts
// the shared processing pipeline.
//
// Routing is a capability table from file extension to processor.
// Content-bearing processors (markdown, html) run the full pipeline:
// validate, chunkify, persist, account. Stub processors acknowledge
// their file types without producing chunks so mixed trees crawl
// cleanly.
package processors
