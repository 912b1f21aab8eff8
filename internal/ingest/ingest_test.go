package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")
	writeFile(t, path, `{"id": "doc-1", "title": "Rechnung März.pdf", "pageContent": "Rechnungsnummer: 12345", "extra": [1,2]}`)

	doc, err := LoadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "Rechnung März.pdf", doc.Title)
	assert.Equal(t, "Rechnungsnummer: 12345", doc.Content)
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantID  string
		wantErr bool
	}{
		{name: "numeric id", body: `{"id": 42, "pageContent": "x"}`, wantID: "42"},
		{name: "missing keys", body: `{}`, wantID: ""},
		{name: "null title", body: `{"id": "a", "title": null}`, wantID: "a"},
		{name: "array", body: `[{"id": "a"}]`, wantErr: true},
		{name: "null document", body: `null`, wantErr: true},
		{name: "broken json", body: `{"id": `, wantErr: true},
		{name: "object content", body: `{"pageContent": {"a": 1}}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, doc.ID)
		})
	}
}

func TestLoadDocument_MissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), "{}")
	writeFile(t, filepath.Join(dir, "a.JSON"), "{}")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	writeFile(t, filepath.Join(dir, ".hidden.json"), "{}")
	writeFile(t, filepath.Join(dir, "invoices_for_chromadb.json"), "[]")
	writeFile(t, filepath.Join(dir, "sub", "c.json"), "{}")
	writeFile(t, filepath.Join(dir, ".git", "d.json"), "{}")

	opts := ScanOptions{SkipHidden: true, Exclude: []string{"invoices_for_chromadb.json"}}

	paths, stats, err := ScanDirectory(dir, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.JSON"), filepath.Join(dir, "b.json")}, paths)
	assert.Equal(t, uint32(2), stats.Matched)
	assert.Equal(t, uint32(2), stats.Skipped)

	opts.Recursive = true
	paths, _, err = ScanDirectory(dir, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.JSON"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "sub", "c.json"),
	}, paths)
}

func TestScanDirectory_Errors(t *testing.T) {
	_, _, err := ScanDirectory("  ", ScanOptions{})
	assert.Error(t, err)

	_, _, err = ScanDirectory(filepath.Join(t.TempDir(), "missing"), ScanOptions{})
	assert.Error(t, err)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/x/.env.json"))
	assert.False(t, IsHidden("/x/a.json"))
	assert.False(t, IsHidden("."))
}

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestStartWatcher(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.json")
	writeFile(t, existing, "{}")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    50 * time.Millisecond,
		Exclude:     []string{"out.json"},
	})
	require.NoError(t, err)
	assert.Equal(t, existing, receive(t, events))

	writeFile(t, filepath.Join(dir, "ignored.txt"), "x")
	writeFile(t, filepath.Join(dir, "out.json"), "[]")
	created := filepath.Join(dir, "new.json")
	writeFile(t, created, "{}")
	assert.Equal(t, created, receive(t, events))

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
