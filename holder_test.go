package condchan

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder_sendReceive(t *testing.T) {
	h := NewHolder[int](2)
	defer h.Destroy()

	require.True(t, h.IsInitialized())
	assert.Equal(t, reflect.TypeOf((*int)(nil)).Elem(), h.ElemType())
	assert.Equal(t, 2, h.Cap())
	assert.NotEqual(t, uuid.Nil, h.ID())

	require.NoError(t, HolderSend(h, 5))
	assert.Equal(t, 1, h.Len())
	v, ok, err := HolderReceive[int](h)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, v)
}

func TestHolder_typeMismatch(t *testing.T) {
	h := NewHolder[int](1)
	defer h.Destroy()

	_, err := Get[string](h)
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "int")
	assert.Contains(t, err.Error(), "string")

	assert.ErrorIs(t, HolderSend(h, "x"), ErrTypeMismatch)
	_, _, err = HolderReceive[float64](h)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	// named types are distinct element types
	type myInt int
	_, err = Get[myInt](h)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	ch, err := Get[int](h)
	require.NoError(t, err)
	assert.Equal(t, h.ID(), ch.ID())
}

func TestHolder_empty(t *testing.T) {
	var h Holder
	assert.False(t, h.IsInitialized())
	assert.Nil(t, h.ElemType())
	assert.Equal(t, uuid.Nil, h.ID())
	assert.Equal(t, 0, h.Cap())
	assert.Equal(t, 0, h.Len())
	assert.True(t, h.IsClosed())
	<-h.Done()
	h.Close()
	h.Destroy()

	_, err := Get[int](&h)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, HolderSend(&h, 1), ErrNotInitialized)
}

func TestHolder_closeUnblocks(t *testing.T) {
	for _, c := range []int{0, 1} {
		h := NewHolder[int](c)

		result := make(chan bool, 1)
		go func() {
			_, ok, _ := HolderReceive[int](h)
			result <- ok
		}()
		ch, err := Get[int](h)
		require.NoError(t, err)
		waitParked(t, ch, 1)

		CloseChannel(h)
		assert.True(t, h.IsClosed())
		select {
		case ok := <-result:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("receiver not unblocked by close")
		}
		assert.ErrorIs(t, HolderSend(h, 1), ErrClosed)
		h.Destroy()
	}
}

func TestHolder_reset(t *testing.T) {
	h := NewHolder[int](0)
	old, err := Get[int](h)
	require.NoError(t, err)

	result := make(chan error, 1)
	go func() { result <- old.Send(1) }()
	waitParked(t, old, 1)

	Reset[string](h, 3)
	// the previous channel is destroyed, unblocking its sender
	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("sender not unblocked by reset")
	}
	assert.True(t, old.IsClosed())

	assert.Equal(t, reflect.TypeOf((*string)(nil)).Elem(), h.ElemType())
	assert.Equal(t, 3, h.Cap())
	assert.False(t, h.IsClosed())
	assert.NotEqual(t, old.ID(), h.ID())
	require.NoError(t, HolderSend(h, "ok"))
	_, err = Get[int](h)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	h.Destroy()
}
