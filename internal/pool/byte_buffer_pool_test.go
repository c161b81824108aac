package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBufferGrowAndWrite(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte("abc"))
	require.Equal(t, 3, bb.Len())

	bb.Grow(1024)
	require.GreaterOrEqual(t, cap(bb.B), 1024+3)
	require.Equal(t, []byte("abc"), bb.Bytes())

	n, err := bb.Write([]byte("def"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []byte("abcdef"), bb.Bytes())

	bb.Reset()
	require.Zero(t, bb.Len())
}

func TestPoolDiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(16, 64)
	bb := p.Get()
	require.NotNil(t, bb)

	bb.Grow(1024)
	p.Put(bb) // over threshold, dropped

	bb2 := p.Get()
	require.LessOrEqual(t, cap(bb2.B), 1024)
	p.Put(bb2)
	p.Put(nil) // must not panic
}

func TestDefaultRecordPool(t *testing.T) {
	bb := GetRecordBuffer()
	require.NotNil(t, bb)
	require.Zero(t, bb.Len())
	bb.MustWrite([]byte{1, 2, 3})
	PutRecordBuffer(bb)

	bb2 := GetRecordBuffer()
	require.Zero(t, bb2.Len())
	PutRecordBuffer(bb2)
}
