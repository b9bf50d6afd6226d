// Package embcache computes section embeddings lazily, one book at a time,
// backed by an optional key-value cache of previously computed vectors.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bookqa/internal/db"
	"github.com/kailas-cloud/bookqa/internal/domain"
)

const cacheKeyPrefix = "bookqa:emb_cache:"

// sectionStore is the consumer interface over the book registry (ISP).
type sectionStore interface {
	SectionsForBook(bookID int) []domain.Section
	SetSectionVector(sectionID int, vector []float32) error
}

// kvStore is the consumer interface for the persistent vector cache.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SectionCache fills in missing section embeddings on demand.
//
// A per-book mutex serializes computation for the same book, so concurrent
// requests do not duplicate embedder calls. When the embedder fails part-way,
// vectors already assigned in that pass are kept: a missing vector is
// detectable and triggers recomputation on the next access.
type SectionCache struct {
	sections   sectionStore
	embedder   domain.Embedder
	kv         kvStore
	kvTTL      time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger

	mu        sync.Mutex
	bookLocks map[int]*sync.Mutex
}

// New creates a section embedding cache without persistence.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(
	sections sectionStore,
	embedder domain.Embedder,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *SectionCache {
	return &SectionCache{
		sections:   sections,
		embedder:   embedder,
		cacheTotal: cacheTotal,
		logger:     logger,
		bookLocks:  make(map[int]*sync.Mutex),
	}
}

// WithKV attaches a persistent vector cache keyed by the section text hash.
// ttl <= 0 means entries never expire.
func (c *SectionCache) WithKV(kv kvStore, ttl time.Duration) *SectionCache {
	c.kv = kv
	c.kvTTL = ttl
	return c
}

// EnsureEmbeddings computes embeddings for every section of the book that does
// not have one yet. No-op when all sections are embedded or the book has no
// sections.
func (c *SectionCache) EnsureEmbeddings(ctx context.Context, bookID int) error {
	lock := c.lockFor(bookID)
	lock.Lock()
	defer lock.Unlock()

	for _, s := range c.sections.SectionsForBook(bookID) {
		if s.HasVector() {
			continue
		}

		vec, err := c.embedSection(ctx, s)
		if err != nil {
			return fmt.Errorf("embed section %d: %w", s.ID(), err)
		}
		if err := c.sections.SetSectionVector(s.ID(), vec); err != nil {
			return fmt.Errorf("store section %d vector: %w", s.ID(), err)
		}
	}
	return nil
}

func (c *SectionCache) embedSection(ctx context.Context, s domain.Section) ([]float32, error) {
	key := cacheKey(s.Text())

	if vec, ok := c.getFromKV(ctx, key); ok {
		c.incCache("hit")
		return vec, nil
	}
	c.incCache("miss")

	result, err := c.embedder.Embed(ctx, s.Text())
	if err != nil {
		return nil, err
	}

	c.putToKV(ctx, key, result.Embedding)
	return result.Embedding, nil
}

func (c *SectionCache) lockFor(bookID int) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.bookLocks[bookID]
	if !ok {
		lock = &sync.Mutex{}
		c.bookLocks[bookID] = lock
	}
	return lock
}

func (c *SectionCache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *SectionCache) getFromKV(ctx context.Context, key string) ([]float32, bool) {
	if c.kv == nil {
		return nil, false
	}

	data, err := c.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vec, true
}

func (c *SectionCache) putToKV(ctx context.Context, key string, vec []float32) {
	if c.kv == nil {
		return
	}

	data := vectorToBytes(vec)
	var err error
	if c.kvTTL > 0 {
		err = c.kv.SetWithTTL(ctx, key, data, c.kvTTL)
	} else {
		err = c.kv.Set(ctx, key, data)
	}
	if err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

func vectorToBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
