package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGetRemove(t *testing.T) {
	r := New()
	s := Session{ID: "abc", Player: "bob", Mode: "ssh", StartedAt: time.Now()}

	require.NoError(t, r.Add(s))
	assert.Error(t, r.Add(s), "duplicate id")
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get("abc")
	require.True(t, ok)
	assert.Equal(t, "bob", got.Player)

	r.Remove("abc")
	r.Remove("abc")
	_, ok = r.Get("abc")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestListOrder(t *testing.T) {
	r := New()
	base := time.Unix(1_700_000_000, 0)

	require.NoError(t, r.Add(Session{ID: "late", StartedAt: base.Add(time.Minute)}))
	require.NoError(t, r.Add(Session{ID: "b", StartedAt: base}))
	require.NoError(t, r.Add(Session{ID: "a", StartedAt: base}))

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"a", "b", "late"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestConcurrentAccess(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			assert.NoError(t, r.Add(Session{ID: id}))
			_ = r.List()
			if i%2 == 0 {
				r.Remove(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, r.Len())
}
