package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_ItemsSortedByID(t *testing.T) {
	s := NewStore(
		Item{ID: "b", Name: "second"},
		Item{ID: "a", Name: "first"},
		Item{ID: "c", Name: "third"},
	)

	items := s.Items()
	require.Len(t, items, 3)
	require.Equal(t, "a", items[0].ID)
	require.Equal(t, "b", items[1].ID)
	require.Equal(t, "c", items[2].ID)
	require.Equal(t, 3, s.Len())
}

func TestStore_GetExactKey(t *testing.T) {
	s := NewStore(Bootstrap()...)

	it, ok := s.Get("2")
	require.True(t, ok)
	require.Equal(t, "Yamaha DX7", it.Name)

	_, ok = s.Get("02")
	require.False(t, ok)
	require.NoError(t, s.Ping(context.Background()))
}

func TestStore_LaterDuplicateWins(t *testing.T) {
	s := NewStore(Item{ID: "1", Name: "old"}, Item{ID: "1", Name: "new"})

	it, ok := s.Get("1")
	require.True(t, ok)
	require.Equal(t, "new", it.Name)
	require.Equal(t, 1, s.Len())
}

func TestStore_ConcurrentReaders(t *testing.T) {
	s := NewStore(Bootstrap()...)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if len(s.Items()) != len(Bootstrap()) {
					t.Error("snapshot size changed")
					return
				}
				if _, ok := s.Get("1"); !ok {
					t.Error("bootstrap item missing")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestBootstrap_UniqueIDs(t *testing.T) {
	require.NoError(t, Validate(Bootstrap()))
}
