package correlation_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/tokensale/pkg/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CaseInsensitive(t *testing.T) {
	s := correlation.NewMemoryStore()
	defer s.Close()

	s.Put("0xAbCd", "a@b.com")

	for _, addr := range []string{"0xAbCd", "0xabcd", "0XABCD", "0xaBcD"} {
		email, ok := s.Get(addr)
		require.True(t, ok, "address %s should resolve", addr)
		assert.Equal(t, "a@b.com", email)
	}
}

func TestMemoryStore_OverwriteAndMiss(t *testing.T) {
	s := correlation.NewMemoryStore()
	defer s.Close()

	s.Put("0xABC", "first@b.com")
	s.Put("0xabc", "second@b.com")

	email, ok := s.Get("0xABC")
	require.True(t, ok)
	assert.Equal(t, "second@b.com", email)
	assert.Equal(t, 1, s.Len())

	_, ok = s.Get("0xDEF")
	assert.False(t, ok)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := correlation.NewMemoryStore()
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Put(fmt.Sprintf("0xADDR%d", i), fmt.Sprintf("user%d@b.com", i))
		}(i)
		go func(i int) {
			defer wg.Done()
			s.Get(fmt.Sprintf("0xaddr%d", i))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
	for i := 0; i < 50; i++ {
		email, ok := s.Get(fmt.Sprintf("0xaddr%d", i))
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("user%d@b.com", i), email)
	}
}

func TestMemoryStore_TTLEviction(t *testing.T) {
	s := correlation.NewMemoryStore(correlation.WithTTL(20 * time.Millisecond))
	defer s.Close()

	s.Put("0xABC", "a@b.com")

	_, ok := s.Get("0xABC")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	_, ok = s.Get("0xABC")
	assert.False(t, ok, "entry should expire after TTL")
}
