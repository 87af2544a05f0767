package searchindex

import (
	"context"
	"sort"
	"sync"
)

// MemoryIndex is an in-memory Index for local mode and tests. Matching and
// scoring follow the Redis implementation; ties break on ascending id so
// results are deterministic.
type MemoryIndex struct {
	mu    sync.RWMutex
	docs  map[int64][]byte
	freqs map[int64]map[string]int
}

// NewMemoryIndex creates an empty in-memory search index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		docs:  make(map[int64][]byte),
		freqs: make(map[int64]map[string]int),
	}
}

// Index stores the document and replaces its token frequencies.
func (m *MemoryIndex) Index(ctx context.Context, id int64, doc []byte, text string) error {
	stored := make([]byte, len(doc))
	copy(stored, doc)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = stored
	m.freqs[id] = TermFrequencies(text)
	return nil
}

// Delete removes the document.
func (m *MemoryIndex) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	delete(m.freqs, id)
	return nil
}

// Search returns the page of documents matching every token of query.
func (m *MemoryIndex) Search(ctx context.Context, query string, offset, limit int) (*Result, error) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return &Result{IDs: []int64{}, Docs: [][]byte{}}, nil
	}

	type match struct {
		id    int64
		score int
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []match
	for id, freqs := range m.freqs {
		score := 0
		matched := true
		for _, token := range tokens {
			freq := freqs[token]
			if freq == 0 {
				matched = false
				break
			}
			score += freq
		}
		if matched {
			matches = append(matches, match{id: id, score: score})
		}
	}

	sort.Slice(matches, func(a, b int) bool {
		if matches[a].score != matches[b].score {
			return matches[a].score > matches[b].score
		}
		return matches[a].id < matches[b].id
	})

	result := &Result{IDs: []int64{}, Docs: [][]byte{}, Total: int64(len(matches))}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matches) || limit <= 0 {
		return result, nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}

	for _, mt := range matches[offset:end] {
		result.IDs = append(result.IDs, mt.id)
		result.Docs = append(result.Docs, m.docs[mt.id])
	}
	return result, nil
}

// Clear drops every document.
func (m *MemoryIndex) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[int64][]byte)
	m.freqs = make(map[int64]map[string]int)
	return nil
}
