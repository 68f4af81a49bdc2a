package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_PushEvictsOldest(t *testing.T) {
	b := NewBuffer[int](3)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 3, b.Cap())

	for i := 1; i <= 5; i++ {
		b.Push(i)
	}

	assert.Equal(t, 3, b.Len())
	assert.True(t, b.Full())
	assert.Equal(t, []int{3, 4, 5}, b.Slice())

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, 5, last)
}

func TestBuffer_LenNeverExceedsCap(t *testing.T) {
	b := NewBuffer[float64](15)
	for i := 0; i < 100; i++ {
		b.Push(float64(i))
		assert.LessOrEqual(t, b.Len(), b.Cap())
	}
	snap := b.Slice()
	require.Len(t, snap, 15)
	assert.Equal(t, 85.0, snap[0])
	assert.Equal(t, 99.0, snap[14])
}

func TestBuffer_Tail(t *testing.T) {
	b := NewBuffer[int](6)
	for i := 1; i <= 8; i++ {
		b.Push(i)
	}

	assert.Equal(t, []int{6, 7, 8}, b.Tail(3))
	assert.Equal(t, []int{3, 4, 5, 6, 7, 8}, b.Tail(10))
	assert.Empty(t, b.Tail(0))
}

func TestBuffer_SliceIsACopy(t *testing.T) {
	b := NewBuffer[int](2)
	b.Push(1)
	snap := b.Slice()
	snap[0] = 42

	assert.Equal(t, []int{1}, b.Slice())
}

func TestBuffer_Reset(t *testing.T) {
	b := NewBuffer[int](2)
	b.Push(1)
	b.Push(2)
	b.Reset()

	assert.Equal(t, 0, b.Len())
	_, ok := b.Last()
	assert.False(t, ok)

	b.Push(7)
	assert.Equal(t, []int{7}, b.Slice())
}

func TestNewBuffer_MinimumCapacity(t *testing.T) {
	b := NewBuffer[string](0)
	assert.Equal(t, 1, b.Cap())
	b.Push("a")
	b.Push("b")
	assert.Equal(t, []string{"b"}, b.Slice())
}
