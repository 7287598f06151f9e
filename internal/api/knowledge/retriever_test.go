package knowledge

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func newTestRetriever(t *testing.T, files map[string]string) *CorpusRetriever {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCorpusRetriever(writeCorpus(t, files), logger)
}

func TestRetrieveContext_RanksByKeywordOverlap(t *testing.T) {
	retriever := newTestRetriever(t, map[string]string{
		"goa.txt": "Goa is famous for its beaches and seafood along the Arabian Sea coast.\n\n" +
			"The monsoon season in Goa runs from June to September with heavy rain.",
		"delhi.txt": "Delhi is known for its Mughal architecture and street food markets.",
	})

	result := retriever.RetrieveContext(context.Background(), "best beaches in Goa", 1)
	assert.Contains(t, result, "beaches")
	assert.NotContains(t, result, "Delhi")
}

func TestRetrieveContext_EmptyCorpus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	retriever := NewCorpusRetriever(filepath.Join(t.TempDir(), "missing"), logger)

	assert.Empty(t, retriever.RetrieveContext(context.Background(), "anything", 4))
}

func TestRetrieveContext_NoOverlapReturnsEmpty(t *testing.T) {
	retriever := newTestRetriever(t, map[string]string{
		"goa.txt": "Goa is famous for its beaches and seafood along the Arabian Sea coast.",
	})

	assert.Empty(t, retriever.RetrieveContext(context.Background(), "zzz qqq", 4))
}

func TestRetrieveContext_LimitsToTopK(t *testing.T) {
	retriever := newTestRetriever(t, map[string]string{
		"goa.txt": "Goa beaches are lined with shacks serving fresh seafood dishes.\n\n" +
			"North Goa beaches are livelier than the quiet southern Goa beaches.\n\n" +
			"Goa beaches see the most visitors between November and February.",
	})

	result := retriever.RetrieveContext(context.Background(), "Goa beaches", 2)
	assert.Len(t, strings.Split(result, "\n\n"), 2)
}
