package cache

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkohl98/RattleCache/budget"
	"github.com/mkohl98/RattleCache/codec"
	"github.com/mkohl98/RattleCache/errors"
)

// corruptCodec encodes normally but refuses to decode, standing in for a
// payload damaged between write and read.
type corruptCodec struct {
	inner codec.Codec
}

func (c corruptCodec) Marshal(v any) ([]byte, error) { return c.inner.Marshal(v) }

func (c corruptCodec) Unmarshal([]byte, any) error {
	return fmt.Errorf("%w: truncated payload", errors.ErrDecodeFailed)
}

func (c corruptCodec) Name() string { return "corrupt" }

// payload returns a string whose estimated size is exactly n bytes.
func payload(n int) string {
	return strings.Repeat("x", n-stringHeaderSize)
}

func newStore(t *testing.T, cfg Config, options ...Option[string]) *Store[string] {
	t.Helper()
	store, err := New[string](cfg, options...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreBasicOperations(t *testing.T) {
	store := newStore(t, DefaultConfig())

	require.NoError(t, store.Add("greeting", "hello"))
	assert.True(t, store.Has("greeting"))
	assert.Equal(t, 1, store.Len())

	value, ok, err := store.Get("greeting")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello", value)

	_, ok, err = store.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, store.Delete("greeting"))
	assert.False(t, store.Delete("greeting"))
	assert.False(t, store.Has("greeting"))
	assert.Equal(t, 0, store.Len())
}

func TestStoreAddExistingIsNoop(t *testing.T) {
	store := newStore(t, DefaultConfig())

	require.NoError(t, store.Add("key", "first"))
	require.NoError(t, store.Add("key", "second"))

	value, ok, err := store.Get("key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", value)

	require.NoError(t, store.Add("key", "third", Replace()))
	value, _, err = store.Get("key")
	require.NoError(t, err)
	assert.Equal(t, "third", value)
}

func TestStoreUpdate(t *testing.T) {
	store := newStore(t, DefaultConfig())

	require.NoError(t, store.Update("key", "created"))
	require.NoError(t, store.Update("key", "replaced"))

	value, ok, err := store.Get("key")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "replaced", value)
	assert.Equal(t, 1, store.Len())
}

func TestStoreDeleteRemovesAllTraces(t *testing.T) {
	store := newStore(t, DefaultConfig())

	require.NoError(t, store.Add("a", "1"))
	require.NoError(t, store.Add("b", "2"))
	require.True(t, store.Delete("a"))

	_, ok, err := store.Get("a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, store.Identifiers())
}

func TestStoreEmptyIdentifierRejected(t *testing.T) {
	store := newStore(t, DefaultConfig())

	err := store.Add("", "value")
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestStoreIdentifiersInsertionOrder(t *testing.T) {
	store := newStore(t, Config{Mode: ModeLRA})

	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, store.Add(id, id))
	}
	assert.Equal(t, []string{"first", "second", "third"}, store.Identifiers())
}

func TestStoreMemoryAccounting(t *testing.T) {
	store := newStore(t, Config{MemoryLimit: 1000, Mode: ModeLRU})

	require.NoError(t, store.Add("a", payload(100)))
	require.NoError(t, store.Add("b", payload(200)))
	assert.Equal(t, float64(300), store.MemoryUsage())
	assert.Equal(t, float64(30), store.MemoryUsagePercent())

	store.Delete("a")
	assert.Equal(t, float64(200), store.MemoryUsage())

	store.Clear()
	assert.Equal(t, float64(0), store.MemoryUsage())
	assert.Equal(t, 0, store.Len())
}

func TestStoreMemoryInvariantHeldAfterEveryAdd(t *testing.T) {
	const limit = 1000
	store := newStore(t, Config{MemoryLimit: limit, Mode: ModeLRU})

	for i := 0; i < 50; i++ {
		require.NoError(t, store.Add(fmt.Sprintf("key-%d", i), payload(100)))
		assert.LessOrEqual(t, store.MemoryUsage(), float64(limit))
	}
	assert.Equal(t, 10, store.Len())
}

func TestStoreLRUEvictsLeastRecentlyAccessed(t *testing.T) {
	store := newStore(t, Config{MemoryLimit: 250, Mode: ModeLRU})

	require.NoError(t, store.Add("a", payload(100)))
	require.NoError(t, store.Add("b", payload(100)))

	// Touch "a" so "b" becomes the least recently accessed entry.
	_, _, err := store.Get("a")
	require.NoError(t, err)

	require.NoError(t, store.Add("c", payload(100)))

	assert.True(t, store.Has("a"))
	assert.False(t, store.Has("b"))
	assert.True(t, store.Has("c"))
}

func TestStoreLRAEvictsEarliestInsertion(t *testing.T) {
	store := newStore(t, Config{MemoryLimit: 250, Mode: ModeLRA})

	require.NoError(t, store.Add("a", payload(100)))
	require.NoError(t, store.Add("b", payload(100)))

	// Access must not protect "a" from insertion-order eviction.
	_, _, err := store.Get("a")
	require.NoError(t, err)

	require.NoError(t, store.Add("c", payload(100)))

	assert.False(t, store.Has("a"))
	assert.True(t, store.Has("b"))
	assert.True(t, store.Has("c"))
}

func TestStoreLFUEvictsLeastFrequentlyAccessed(t *testing.T) {
	store := newStore(t, Config{MemoryLimit: 250, Mode: ModeLFU})

	require.NoError(t, store.Add("a", payload(100)))
	require.NoError(t, store.Add("b", payload(100)))

	for i := 0; i < 3; i++ {
		_, _, err := store.Get("a")
		require.NoError(t, err)
	}

	require.NoError(t, store.Add("c", payload(100)))

	assert.True(t, store.Has("a"))
	assert.False(t, store.Has("b"))
	assert.True(t, store.Has("c"))
}

func TestStoreLFUTieBreaksByOldestInsertion(t *testing.T) {
	store := newStore(t, Config{MemoryLimit: 250, Mode: ModeLFU})

	require.NoError(t, store.Add("old", payload(100)))
	require.NoError(t, store.Add("new", payload(100)))
	require.NoError(t, store.Add("c", payload(100)))

	assert.False(t, store.Has("old"))
	assert.True(t, store.Has("new"))
	assert.True(t, store.Has("c"))
}

func TestStoreLFUUpdateResetsFrequency(t *testing.T) {
	store := newStore(t, Config{MemoryLimit: 250, Mode: ModeLFU})

	require.NoError(t, store.Add("a", payload(100)))
	require.NoError(t, store.Add("b", payload(100)))

	for i := 0; i < 5; i++ {
		_, _, err := store.Get("a")
		require.NoError(t, err)
	}
	_, _, err := store.Get("b")
	require.NoError(t, err)

	// Replacing "a" forgets its history, so it becomes the coldest entry.
	require.NoError(t, store.Update("a", payload(100)))
	require.NoError(t, store.Add("c", payload(100)))

	assert.False(t, store.Has("a"))
	assert.True(t, store.Has("b"))
	assert.True(t, store.Has("c"))
}

func TestStoreOversizedEntry(t *testing.T) {
	store := newStore(t, Config{MemoryLimit: 250, Mode: ModeLRU})

	require.NoError(t, store.Add("a", payload(100)))
	require.NoError(t, store.Add("big", payload(400)))

	// Eviction runs until the store is empty, then the entry is admitted.
	assert.False(t, store.Has("a"))
	assert.True(t, store.Has("big"))
	assert.Equal(t, 1, store.Len())
}

func TestStoreExplicitSerialization(t *testing.T) {
	store := newStore(t, DefaultConfig())

	require.NoError(t, store.Add("doc", "serialize me", Serialized()))

	value, ok, err := store.Get("doc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "serialize me", value)
	assert.Equal(t, int64(1), store.Stats().Serializations())
}

func TestStoreAutoSerializationAboveThreshold(t *testing.T) {
	store := newStore(t, Config{Mode: ModeLRU, SerializeLimit: 64})

	require.NoError(t, store.Add("small", payload(32)))
	require.NoError(t, store.Add("large", payload(256)))

	assert.Equal(t, int64(1), store.Stats().Serializations())

	value, ok, err := store.Get("large")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payload(256), value)
}

func TestStoreGetSurfacesDecodeFailure(t *testing.T) {
	store := newStore(t, DefaultConfig(),
		WithCodec[string](corruptCodec{inner: codec.NewGob()}))

	require.NoError(t, store.Add("doc", "value", Serialized()))
	require.NoError(t, store.Add("raw", "value"))

	_, ok, err := store.Get("doc")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDecodeFailed)
	assert.True(t, errors.IsInvalid(err))
	assert.False(t, ok)

	// The failed read counts neither as hit nor as policy touch.
	assert.Equal(t, int64(0), store.Stats().Hits())

	// Raw entries never pass through the codec on read.
	value, ok, err := store.Get("raw")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "value", value)
}

func TestStoreEvictionCallback(t *testing.T) {
	var mu sync.Mutex
	var evicted []string
	store := newStore(t, Config{MemoryLimit: 250, Mode: ModeLRA},
		WithEvictionCallback[string](func(identifier string) {
			mu.Lock()
			evicted = append(evicted, identifier)
			mu.Unlock()
		}))

	require.NoError(t, store.Add("a", payload(100)))
	require.NoError(t, store.Add("b", payload(100)))
	require.NoError(t, store.Add("c", payload(100)))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a"}, evicted)
}

func TestStoreStatistics(t *testing.T) {
	store := newStore(t, DefaultConfig())

	require.NoError(t, store.Add("a", "1"))
	_, _, err := store.Get("a")
	require.NoError(t, err)
	_, _, err = store.Get("missing")
	require.NoError(t, err)
	store.Delete("a")

	stats := store.Stats()
	assert.Equal(t, int64(1), stats.Hits())
	assert.Equal(t, int64(1), stats.Misses())
	assert.Equal(t, int64(1), stats.Sets())
	assert.Equal(t, int64(1), stats.Deletes())
	assert.Equal(t, 0.5, stats.HitRatio())
}

func TestStoreClosedRejectsWrites(t *testing.T) {
	store, err := New[string](DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	err = store.Add("key", "value")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStoreClosed)
}

func TestStoreBudgetIntegration(t *testing.T) {
	registry, err := budget.NewRegistry(1000)
	require.NoError(t, err)

	first := newStore(t, Config{MemoryLimit: 600, Mode: ModeLRU},
		WithBudget[string](registry))
	assert.Equal(t, uint64(600), registry.Committed())

	_, err = New[string](Config{MemoryLimit: 600, Mode: ModeLRU},
		WithBudget[string](registry))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBudgetExceeded)

	require.NoError(t, first.Close())
	assert.Equal(t, uint64(0), registry.Committed())

	second, err := New[string](Config{MemoryLimit: 600, Mode: ModeLRU},
		WithBudget[string](registry))
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestStoreInvalidConfig(t *testing.T) {
	_, err := New[string](Config{Mode: "fifo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownMode)
}

func TestStoreOverview(t *testing.T) {
	store := newStore(t, Config{MemoryLimit: 1000, Mode: ModeLRU})

	require.NoError(t, store.Add("small", payload(50)))
	require.NoError(t, store.Add("large", payload(200)))

	report := store.Overview()
	assert.Equal(t, uint64(1000), report.MemoryLimit)
	assert.Equal(t, float64(250), report.MemoryUsed)
	assert.Equal(t, ModeLRU, report.Mode)
	require.Len(t, report.Entries, 2)
	assert.Equal(t, "large", report.Entries[0].Identifier)
	assert.Equal(t, "small", report.Entries[1].Identifier)

	text := report.String()
	assert.Contains(t, text, "Cache Overview")
	assert.Contains(t, text, "large")
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := newStore(t, Config{MemoryLimit: 10_000, Mode: ModeLRU})

	const workers = 8
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := fmt.Sprintf("key-%d-%d", w, i%10)
				assert.NoError(t, store.Add(id, payload(64), Replace()))
				_, _, err := store.Get(id)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	assert.LessOrEqual(t, store.MemoryUsage(), float64(10_000))
}
