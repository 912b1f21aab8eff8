package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/core"
	"github.com/joseph-ayodele/invoice-extractor/internal/entity"
)

type echoProcessor struct{}

func (echoProcessor) Process(_ context.Context, doc entity.Document) entity.ExtractionResult {
	if doc.ID == "panic" {
		panic("boom")
	}
	return entity.ExtractionResult{
		DocumentID:       doc.ID,
		Metadata:         entity.Metadata{"original_filename": doc.Title},
		ExtractionMethod: constants.MethodFallback,
	}
}

type memorySink struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (m *memorySink) Save(_ context.Context, res entity.ExtractionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, res.DocumentID)
	return m.err
}

func mapLoader(docs map[string]entity.Document) Loader {
	return func(path string) (entity.Document, error) {
		d, ok := docs[path]
		if !ok {
			return entity.Document{}, errors.New("malformed document")
		}
		return d, nil
	}
}

func TestProcessPaths_SkipsBadDocument(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "1.json")
	bad := filepath.Join(dir, "2.json")
	good2 := filepath.Join(dir, "3.json")
	require.NoError(t, os.WriteFile(good1, []byte(`{"id":"1","title":"one","pageContent":"Rechnungsnummer: 1"}`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"id": "2", "pageContent": `), 0o644))
	require.NoError(t, os.WriteFile(good2, []byte(`{"id":"3","title":"three","pageContent":"Invoice # 3"}`), 0o644))

	proc := core.NewProcessor(nil, nil, nil, 0)
	c := NewCoordinator(proc, nil)

	rep := c.ProcessPaths(context.Background(), []string{good1, bad, good2})

	require.Len(t, rep.Results, 2)
	assert.Equal(t, "1", rep.Results[0].DocumentID)
	assert.Equal(t, "3", rep.Results[1].DocumentID)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, bad, rep.Failures[0].Path)
}

func TestProcessPaths_ParallelKeepsOrder(t *testing.T) {
	docs := map[string]entity.Document{}
	var paths []string
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		docs[id] = entity.Document{ID: id, Title: id}
		paths = append(paths, id)
	}
	paths = append(paths, "missing")

	var progress []int
	var mu sync.Mutex
	sink := &memorySink{}
	c := NewCoordinator(echoProcessor{}, nil,
		WithWorkers(4),
		WithLoader(mapLoader(docs)),
		WithSink(sink),
		WithProgress(func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 9, total)
			progress = append(progress, done)
		}),
	)

	rep := c.ProcessPaths(context.Background(), paths)

	require.Len(t, rep.Results, 8)
	for i, r := range rep.Results {
		assert.Equal(t, paths[i], r.DocumentID)
	}
	assert.Len(t, rep.Failures, 1)
	assert.Len(t, sink.saved, 8)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, progress)
}

func TestProcessPaths_PanicIsContained(t *testing.T) {
	docs := map[string]entity.Document{
		"ok":    {ID: "ok"},
		"panic": {ID: "panic"},
	}
	c := NewCoordinator(echoProcessor{}, nil, WithLoader(mapLoader(docs)))

	rep := c.ProcessPaths(context.Background(), []string{"panic", "ok"})

	require.Len(t, rep.Results, 1)
	assert.Equal(t, "ok", rep.Results[0].DocumentID)
	require.Len(t, rep.Failures, 1)
	assert.Contains(t, rep.Failures[0].Error, "panic")
}

func TestProcessPaths_SinkErrorKeepsResult(t *testing.T) {
	docs := map[string]entity.Document{"a": {ID: "a"}}
	sink := &memorySink{err: errors.New("db down")}
	c := NewCoordinator(echoProcessor{}, nil, WithLoader(mapLoader(docs)), WithSink(sink))

	rep := c.ProcessPaths(context.Background(), []string{"a"})
	assert.Len(t, rep.Results, 1)
	assert.Empty(t, rep.Failures)
}

func TestProcessPaths_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCoordinator(echoProcessor{}, nil, WithLoader(mapLoader(map[string]entity.Document{"a": {ID: "a"}})))

	rep := c.ProcessPaths(ctx, []string{"a"})
	assert.Empty(t, rep.Results)
	assert.Empty(t, rep.Failures)
}

func TestSummarize(t *testing.T) {
	mk := func(method constants.ExtractionMethod, md entity.Metadata) entity.ExtractionResult {
		return entity.ExtractionResult{ExtractionMethod: method, Metadata: md}
	}
	results := []entity.ExtractionResult{
		mk(constants.MethodModel, entity.Metadata{"year": 2024, "client": "A AG", "currency": "CHF"}),
		mk(constants.MethodModel, entity.Metadata{"year": 2024.0, "client": "A AG", "currency": "CHF"}),
		mk(constants.MethodFallback, entity.Metadata{"year": 2023, "client": "B GmbH", "currency": "EUR"}),
		mk(constants.MethodFallback, entity.Metadata{"client": "C Ltd", "currency": "unknown"}),
		mk(constants.MethodFallback, entity.Metadata{"client": "D Inc"}),
		mk(constants.MethodFallback, entity.Metadata{"client": "E Corp"}),
		mk(constants.MethodFallback, entity.Metadata{"client": "F SA"}),
	}

	s := Summarize(results)

	assert.Equal(t, 7, s.Total)
	assert.Equal(t, 2, s.ByMethod[constants.MethodModel])
	assert.Equal(t, 5, s.ByMethod[constants.MethodFallback])
	assert.Equal(t, map[int]int{2023: 1, 2024: 2}, s.Years)
	assert.Equal(t, map[string]int{"CHF": 2, "EUR": 1, "unknown": 1}, s.Currencies)
	require.Len(t, s.TopClients, 5)
	assert.Equal(t, ClientCount{Client: "A AG", Count: 2}, s.TopClients[0])
	assert.Equal(t, "B GmbH", s.TopClients[1].Client)
}
