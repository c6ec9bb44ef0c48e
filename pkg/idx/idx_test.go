package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewGeneratesOrderedIDs(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()

	require.NotEqual(t, a, b)
	// Monotonic entropy keeps IDs ordered even within the same millisecond.
	require.Less(t, a.String(), b.String())
}

func TestNewAtEmbedsTimestamp(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := NewAt(at)

	require.True(t, at.Equal(id.Time()), "got %v", id.Time())
}

func TestParse(t *testing.T) {
	t.Parallel()

	id := New()

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = Parse("")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("not-a-ulid")
	require.ErrorIs(t, err, ErrInvalid)

	require.True(t, Zero.IsZero())
	require.False(t, id.IsZero())
}
