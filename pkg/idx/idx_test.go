package idx

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a := New()
	b := New()

	require.False(t, a.IsZero())
	require.False(t, b.IsZero())
	require.NotEqual(t, a, b)

	// Monotonic source keeps same-millisecond IDs ordered.
	require.Less(t, a.String(), b.String())
}

func TestNewAt(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	id := NewAt(at)

	require.False(t, id.IsZero())
	require.WithinDuration(t, at, id.Time(), time.Millisecond)
	require.Equal(t, time.UTC, id.Time().Location())
}

func TestParse(t *testing.T) {
	valid := New().String()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid ulid", valid, false},
		{"valid with whitespace", "  " + valid + "  ", false},
		{"empty", "", true},
		{"garbage", "not-a-ulid", true},
		{"too short", valid[:10], true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				require.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			require.Equal(t, valid, id.String())
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	require.Panics(t, func() { MustParse("bogus") })
}

func TestConcurrentGeneration(t *testing.T) {
	const n = 100

	var wg sync.WaitGroup
	ids := make([]ID, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = New()
		}()
	}
	wg.Wait()

	seen := make(map[ID]struct{}, n)
	for _, id := range ids {
		require.False(t, id.IsZero())
		seen[id] = struct{}{}
	}
	require.Len(t, seen, n)
}
