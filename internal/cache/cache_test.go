package cache

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangedFiles_HitSkipsCompute(t *testing.T) {
	c := New(8)
	key := Key{Previous: "aaa", Current: "bbb", ExcludedBranch: "main"}

	calls := 0
	compute := func() ([]string, error) {
		calls++
		return []string{"docs/readme.md", "src/main.go"}, nil
	}

	first, err := c.GetOrCompute(key, compute)
	require.NoError(t, err)

	second, err := c.GetOrCompute(key, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "compute should run once for the same key")
	assert.ElementsMatch(t, first, second)
}

func TestChangedFiles_DistinctKeysComputeSeparately(t *testing.T) {
	c := New(8)

	calls := 0
	compute := func() ([]string, error) {
		calls++
		return []string{"a.txt"}, nil
	}

	_, err := c.GetOrCompute(Key{Previous: "a", Current: "b"}, compute)
	require.NoError(t, err)
	_, err = c.GetOrCompute(Key{Previous: "a", Current: "c"}, compute)
	require.NoError(t, err)
	_, err = c.GetOrCompute(Key{Previous: "a", Current: "b", ExcludedBranch: "main"}, compute)
	require.NoError(t, err)

	assert.Equal(t, 3, calls, "each distinct key is its own computation")
}

func TestChangedFiles_ErrorNotCached(t *testing.T) {
	c := New(8)
	key := Key{Previous: "aaa", Current: "bbb"}

	calls := 0
	boom := errors.New("remote unavailable")
	_, err := c.GetOrCompute(key, func() ([]string, error) {
		calls++
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	// The next call retries and can succeed.
	files, err := c.GetOrCompute(key, func() ([]string, error) {
		calls++
		return []string{"x.go"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x.go"}, files)
	assert.Equal(t, 2, calls)
}

func TestChangedFiles_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)

	keyA := Key{Current: "a"}
	keyB := Key{Current: "b"}
	keyC := Key{Current: "c"}

	counts := map[string]int{}
	computeFor := func(name string) func() ([]string, error) {
		return func() ([]string, error) {
			counts[name]++
			return []string{name + ".go"}, nil
		}
	}

	_, err := c.GetOrCompute(keyA, computeFor("a"))
	require.NoError(t, err)
	_, err = c.GetOrCompute(keyB, computeFor("b"))
	require.NoError(t, err)

	// Adding a third entry evicts keyA, the least recently used.
	_, err = c.GetOrCompute(keyC, computeFor("c"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = c.GetOrCompute(keyA, computeFor("a"))
	require.NoError(t, err)
	assert.Equal(t, 2, counts["a"], "evicted key recomputes")
	assert.Equal(t, 1, counts["c"])
}

func TestChangedFiles_ConcurrentMissesCollapse(t *testing.T) {
	c := New(8)
	key := Key{Previous: "aaa", Current: "bbb"}

	var mu sync.Mutex
	calls := 0
	release := make(chan struct{})
	compute := func() ([]string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-release
		return []string{"shared.go"}, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrCompute(key, compute)
		}(i)
	}

	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"shared.go"}, results[i])
	}

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, calls, 2, "concurrent misses for one key should collapse")
}

func TestNew_NonPositiveCapacityUsesDefault(t *testing.T) {
	c := New(0)
	require.NotNil(t, c)

	_, err := c.GetOrCompute(Key{Current: "x"}, func() ([]string, error) {
		return []string{"x"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}
