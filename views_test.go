package bfdebug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_MemoryWindow(t *testing.T) {
	ctrl, err := New("+>++>+++")
	require.NoError(t, err)
	for {
		unfinished, serr := ctrl.Step(true)
		require.NoError(t, serr)
		if !unfinished {
			break
		}
	}

	rows, more := ctrl.MemoryWindow(0, 4, 2)
	require.True(t, more)
	require.Len(t, rows, 2)
	assert.Equal(t, []byte{1, 2, 3, 0}, rows[0].Cells)
	assert.Equal(t, uint(0), rows[0].Base)
	assert.Equal(t, 2, rows[0].PointerAt)
}

func TestController_MemoryWindowWatchCols(t *testing.T) {
	ctrl, err := New("+>+")
	require.NoError(t, err)
	ok, msg := ctrl.AddWatch("w", 1)
	require.True(t, ok, msg)

	rows, _ := ctrl.MemoryWindow(0, 4, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "w", rows[0].WatchCols[1])
	assert.Len(t, rows[0].WatchCols, 1)
}

func TestController_MemoryWindowMoreFalsePastTape(t *testing.T) {
	ctrl, err := New("+", WithTapeSize(4), WithPageSize(4))
	require.NoError(t, err)

	rows, more := ctrl.MemoryWindow(0, 4, 1)
	require.Len(t, rows, 1)
	assert.False(t, more)
}

func TestController_SourceWindowCentering(t *testing.T) {
	ctrl, err := New("+\n+\n+\n+\n+\n+\n+")
	require.NoError(t, err)
	// step onto line 3 (0-indexed).
	for i := 0; i < 3; i++ {
		_, err := ctrl.Step(true)
		require.NoError(t, err)
	}

	start, end, rows := ctrl.SourceWindow("+\n+\n+\n+\n+\n+\n+", 3)
	assert.Equal(t, uint32(2), start)
	assert.Equal(t, uint32(5), end)
	require.Len(t, rows, 3)
	assert.True(t, rows[1].HasSpan)
}

func TestController_SourceWindowClampsAtStart(t *testing.T) {
	ctrl, err := New("+\n+\n+")
	require.NoError(t, err)
	start, end, rows := ctrl.SourceWindow("+\n+\n+", 5)
	assert.Equal(t, uint32(0), start)
	assert.Equal(t, uint32(3), end)
	assert.Len(t, rows, 3)
}

func TestController_WatchListSorted(t *testing.T) {
	ctrl, err := New("+")
	require.NoError(t, err)
	ok, _ := ctrl.AddWatch("second", 5)
	require.True(t, ok)
	ok, _ = ctrl.AddWatch("first", 1)
	require.True(t, ok)

	entries := ctrl.WatchList()
	require.Len(t, entries, 2)
	assert.Equal(t, uint(1), entries[0].Index)
	assert.Equal(t, uint(5), entries[1].Index)
}
