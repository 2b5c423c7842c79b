// Package corpus implements keyword-ranked lookup over a static FAQ
// document. The corpus is read once and cached for the process lifetime.
package corpus

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/omkarsat/lumi-agent/internal/config"
)

// NoRelevantInformation is returned when no paragraph matches the query.
const NoRelevantInformation = "No relevant information found"

const (
	defaultTopK               = 2
	defaultMinParagraphLength = 50
)

// Retriever searches the FAQ corpus by query-term presence
type Retriever struct {
	path               string
	topK               int
	minParagraphLength int

	once       sync.Once
	paragraphs []string
	loadErr    error
}

// NewRetriever creates a retriever for the configured corpus file
func NewRetriever(cfg config.CorpusConfig) *Retriever {
	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	minLen := cfg.MinParagraphLength
	if minLen <= 0 {
		minLen = defaultMinParagraphLength
	}
	return &Retriever{
		path:               cfg.Path,
		topK:               topK,
		minParagraphLength: minLen,
	}
}

// Search returns the top-K paragraphs ranked by how many query terms each
// contains, joined by blank lines. Every outcome is a string: an empty
// result yields the NoRelevantInformation sentinel and a corpus read
// failure yields an error sentinel, never an error value. The model loop
// expects a textual result for every tool call.
func (r *Retriever) Search(query string) string {
	paragraphs, err := r.load()
	if err != nil {
		return fmt.Sprintf("Error accessing FAQ: %v", err)
	}

	terms := strings.Fields(strings.ToLower(query))

	type match struct {
		score     int
		paragraph string
	}
	var matches []match
	for _, paragraph := range paragraphs {
		lower := strings.ToLower(paragraph)
		score := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, match{score: score, paragraph: paragraph})
		}
	}

	if len(matches) == 0 {
		return NoRelevantInformation
	}

	// Stable sort keeps document order among equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > r.topK {
		matches = matches[:r.topK]
	}

	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = m.paragraph
	}
	return strings.Join(parts, "\n\n")
}

// load reads and splits the corpus exactly once
func (r *Retriever) load() ([]string, error) {
	r.once.Do(func() {
		raw, err := os.ReadFile(r.path)
		if err != nil {
			r.loadErr = err
			return
		}
		r.paragraphs = splitParagraphs(string(raw), r.minParagraphLength)
	})
	return r.paragraphs, r.loadErr
}

// splitParagraphs pages the document on form feeds, then splits each page
// into paragraphs on blank lines. Fragments shorter than minLen (headers,
// page numbers) are dropped as noise.
func splitParagraphs(content string, minLen int) []string {
	pages := strings.Split(content, "\f")

	var paragraphs []string
	for _, page := range pages {
		for _, paragraph := range strings.Split(page, "\n\n") {
			paragraph = strings.TrimSpace(paragraph)
			if len(paragraph) > minLen {
				paragraphs = append(paragraphs, paragraph)
			}
		}
	}
	return paragraphs
}
