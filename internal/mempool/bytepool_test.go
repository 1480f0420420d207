package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBytesLengthAndZeroing(t *testing.T) {
	buf := GetBytes(100)
	require.Len(t, buf, 100)

	for i := range buf {
		buf[i] = 0xFF
	}
	PutBytes(buf)

	// A fresh Get over the same size class must hand back zeroed contents
	// even when the pool recycles the dirtied buffer.
	buf2 := GetBytes(100)
	require.Len(t, buf2, 100)
	for i, v := range buf2 {
		require.Zerof(t, v, "byte %d not zeroed", i)
	}
	PutBytes(buf2)
}

func TestSizeClassRounding(t *testing.T) {
	assert.Equal(t, 4096, sizeClass(1))
	assert.Equal(t, 4096, sizeClass(4096))
	assert.Equal(t, 8192, sizeClass(4097))
	assert.Equal(t, 12288, sizeClass(9000))
}

func TestPutBytesNil(t *testing.T) {
	assert.NotPanics(t, func() { PutBytes(nil) })
}

func TestGetBytesLargeBuffer(t *testing.T) {
	// Roughly a 1920x1080 single-channel mask plane.
	n := 1920 * 1080
	buf := GetBytes(n)
	require.Len(t, buf, n)
	assert.GreaterOrEqual(t, cap(buf), n)
	PutBytes(buf)
}
