package mem_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wartmanm/bfdebug/internal/mem"
)

func Test_Bytes(t *testing.T) {
	var m mem.Bytes
	m.PageSize = 4

	val, err := m.Load(0)
	require.NoError(t, err)
	require.Equal(t, byte(0), val)
	require.Equal(t, uint(0), m.Size())

	require.NoError(t, m.Stor(0, 9))
	val, err = m.Load(0)
	require.NoError(t, err)
	require.Equal(t, byte(9), val)

	require.NoError(t, m.Stor(0xf, 7))
	require.Equal(t, mem.BytesDump{
		Bases: []uint{0x0, 0xc},
		Sizes: []uint{4, 4},
		Pages: [][]byte{
			{9, 0, 0, 0},
			{0, 0, 0, 7},
		},
	}, m.Dump())

	buf := make([]byte, 6)
	require.NoError(t, m.LoadInto(0xa, buf))
	require.Equal(t, []byte{0, 0, 0, 0, 0, 7}, buf)

	require.NoError(t, m.Grow(20))
	require.GreaterOrEqual(t, m.Size(), uint(20))
	val, err = m.Load(19)
	require.NoError(t, err)
	require.Equal(t, byte(0), val)
}

func Test_Bytes_Limit(t *testing.T) {
	var m mem.Bytes
	m.Limit = 8

	require.NoError(t, m.Stor(7, 1))
	err := m.Stor(8, 1)
	require.Error(t, err)
	var lim mem.LimitError
	require.ErrorAs(t, err, &lim)
	require.Equal(t, uint(9), lim.Addr)
}
