package knowledge

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ensure implementation satisfies the interface
var _ Retriever = (*CorpusRetriever)(nil)

// Retriever returns text passages grounding a query in the travel knowledge
// base. The vector-index build step lives outside this repo; this seam is what
// the chat and itinerary services consume.
type Retriever interface {
	RetrieveContext(ctx context.Context, query string, k int) string
}

// CorpusRetriever ranks plain-text corpus passages by keyword overlap with
// the query. Passages are loaded once at construction.
type CorpusRetriever struct {
	logger   *slog.Logger
	passages []string
}

func NewCorpusRetriever(dir string, logger *slog.Logger) *CorpusRetriever {
	r := &CorpusRetriever{logger: logger}

	files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil || len(files) == 0 {
		logger.Warn("Knowledge corpus not found, retrieval will return empty context",
			slog.String("dir", dir))
		return r
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Warn("Failed to read corpus file", slog.String("file", file), slog.Any("error", err))
			continue
		}
		for _, block := range strings.Split(string(data), "\n\n") {
			passage := strings.TrimSpace(block)
			if len(passage) >= 40 {
				r.passages = append(r.passages, passage)
			}
		}
	}

	logger.Info("Knowledge corpus loaded",
		slog.Int("files", len(files)), slog.Int("passages", len(r.passages)))
	return r
}

// RetrieveContext returns up to k passages joined by blank lines, best match
// first. An empty corpus or a query with no overlap yields an empty string.
func (r *CorpusRetriever) RetrieveContext(ctx context.Context, query string, k int) string {
	if len(r.passages) == 0 || k <= 0 {
		return ""
	}

	terms := queryTerms(query)
	if len(terms) == 0 {
		return ""
	}

	type scored struct {
		passage string
		score   int
	}
	ranked := make([]scored, 0, len(r.passages))
	for _, passage := range r.passages {
		lower := strings.ToLower(passage)
		score := 0
		for term := range terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{passage: passage, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	parts := make([]string, len(ranked))
	for i, s := range ranked {
		parts[i] = s.passage
	}
	return strings.Join(parts, "\n\n")
}

func queryTerms(query string) map[string]struct{} {
	terms := map[string]struct{}{}
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?\"'()")
		if len(word) >= 3 {
			terms[word] = struct{}{}
		}
	}
	return terms
}
