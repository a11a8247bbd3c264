package wbapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func moscow(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	return loc
}

func TestWindowBounds(t *testing.T) {
	loc := moscow(t)
	from := time.Date(2024, 3, 1, 15, 30, 0, 0, loc)
	to := time.Date(2024, 3, 7, 8, 0, 0, 0, loc)

	start, end := WindowBounds(from, to, loc)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 3, 7, 23, 59, 59, 999999000, loc), end)
}

func TestChunkRanges(t *testing.T) {
	loc := moscow(t)
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, loc) }

	t.Run("exactly divisible", func(t *testing.T) {
		chunks := ChunkRanges(day(1), day(14), 7)
		require.Len(t, chunks, 2)
		assert.Equal(t, day(1), chunks[0].From)
		assert.Equal(t, day(7), chunks[0].To)
		assert.Equal(t, day(8), chunks[1].From)
		assert.Equal(t, day(14), chunks[1].To)
	})

	t.Run("remainder chunk", func(t *testing.T) {
		chunks := ChunkRanges(day(1), day(10), 7)
		require.Len(t, chunks, 2)
		assert.Equal(t, day(8), chunks[1].From)
		assert.Equal(t, day(10), chunks[1].To)
	})

	t.Run("single day", func(t *testing.T) {
		chunks := ChunkRanges(day(5), day(5), 7)
		require.Len(t, chunks, 1)
		assert.Equal(t, day(5), chunks[0].From)
		assert.Equal(t, day(5), chunks[0].To)
	})
}

func TestParseWBTime(t *testing.T) {
	loc := moscow(t)

	got, ok := ParseWBTime("2024-03-05T14:22:01", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 14, 22, 1, 0, loc), got)

	got, ok = ParseWBTime("2024-03-05", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, loc), got)

	_, ok = ParseWBTime("not-a-date", loc)
	assert.False(t, ok)
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2024-03-05", DayKey("2024-03-05T14:22:01"))
	assert.Equal(t, "2024-03-05", DayKey("2024-03-05"))
	assert.Equal(t, "oops", DayKey("oops"))
}
