package constants

import "strings"

// DocumentExt is the only extension picked up when scanning for invoice documents.
const DocumentExt = "json"

// DefaultOutputFile is where batch runs write their ChromaDB-ready results.
const DefaultOutputFile = "invoices_for_chromadb.json"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsDocumentExt reports whether ext (with or without dot) names an invoice document.
func IsDocumentExt(ext string) bool {
	return NormalizeExt(ext) == DocumentExt
}
