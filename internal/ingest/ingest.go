// Package ingest finds invoice documents on disk and reads them.
package ingest

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
	Failed  uint32
}

// ScanOptions controls ScanDirectory.
type ScanOptions struct {
	Recursive  bool
	SkipHidden bool
	// Exclude holds base names never returned, typically the batch output file.
	Exclude []string
}
