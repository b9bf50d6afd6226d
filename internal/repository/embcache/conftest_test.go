package embcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bookqa/internal/db"
	"github.com/kailas-cloud/bookqa/internal/domain"
)

type mockEmbedder struct {
	mu     sync.Mutex
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockSections is an in-memory section store for tests.
type mockSections struct {
	mu       sync.Mutex
	sections map[int][]domain.Section
}

func newMockSections(bookID int, texts ...string) *mockSections {
	m := &mockSections{sections: make(map[int][]domain.Section)}
	for i, text := range texts {
		m.sections[bookID] = append(m.sections[bookID],
			domain.ReconstructSection(i+1, bookID, text, nil))
	}
	return m
}

func (m *mockSections) SectionsForBook(bookID int) []domain.Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Section, len(m.sections[bookID]))
	copy(out, m.sections[bookID])
	return out
}

func (m *mockSections) SetSectionVector(sectionID int, vector []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for bookID, secs := range m.sections {
		for i, s := range secs {
			if s.ID() == sectionID {
				m.sections[bookID][i] = s.WithVector(vector)
				return nil
			}
		}
	}
	return domain.ErrBookNotFound
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: make(map[string][]byte)}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, _ time.Duration) error {
	return m.Set(ctx, key, value)
}

func newTestCache(t *testing.T, sections *mockSections, embedder *mockEmbedder) *SectionCache {
	t.Helper()
	return New(sections, embedder, nil, zap.NewNop())
}
