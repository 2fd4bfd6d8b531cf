package condchan

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipe_seq(t *testing.T) {
	size := 1000
	in, out := Make[int](size), Make[int](0)
	pipe := NewPipe(in, out)
	defer pipe.Break()
	for i := 0; i < size; i++ {
		require.NoError(t, in.Send(i))
	}
	in.Close()
	for i := 0; i < size; i++ {
		num, ok := out.Receive()
		require.True(t, ok)
		if num != i {
			t.Fatal("bad sequence")
		}
	}

	// src drained, so dst is closed
	_, ok := out.Receive()
	assert.False(t, ok)
	select {
	case <-pipe.Done():
	case <-time.After(time.Second):
		t.Fatal("pipe not done")
	}
	assert.NoError(t, pipe.Err())
	assert.Equal(t, uint64(size), pipe.Len())
}

func TestPipe_manyProducers(t *testing.T) {
	memo := make(map[int]int)
	l := new(sync.Mutex)

	in, out := Make[int](0), Make[int](3)
	pipe := NewPipe(in, out)
	defer pipe.Break()

	wg := new(sync.WaitGroup)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				num := base*1000 + j
				l.Lock()
				memo[num]++
				l.Unlock()
				if err := in.Send(num); err != nil {
					t.Error(err)
				}
			}
		}(i)
	}
	go func() {
		// stop send
		wg.Wait()
		in.Close()
	}()

	for {
		num, ok := out.Receive()
		if !ok {
			break
		}
		l.Lock()
		memo[num]++
		l.Unlock()
	}
	<-pipe.Done()
	for num, v := range memo {
		if v != 2 {
			t.Fatal("lost data", num)
		}
	}
}

func TestPipe_haltNow(t *testing.T) {
	in, out := Make[int](0), Make[int](0)
	pipe := NewPipe(in, out)
	for i := 0; i < 50; i++ {
		go func(base int) {
			for j := 0; j < 100; j++ {
				if in.Send(base*1000+j) != nil {
					return
				}
			}
		}(i)
	}
	pipe.Break()
	select {
	case <-pipe.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("should halt right now")
	}
	assert.NoError(t, pipe.Err())
	// neither side is closed by Break
	assert.False(t, in.IsClosed())
	assert.False(t, out.IsClosed())
	in.Destroy()
	out.Destroy()
}

func TestPipe_dstClosed(t *testing.T) {
	in, out := Make[int](4), Make[int](0)
	pipe := NewPipe(in, out)
	require.NoError(t, in.Send(1))
	require.NoError(t, in.Send(2))

	v, ok := out.Receive()
	require.True(t, ok)
	require.Equal(t, 1, v)

	// the pipe is now blocked handing over 2
	waitParked(t, out, 1)
	out.Close()

	select {
	case <-pipe.Done():
	case <-time.After(time.Second):
		t.Fatal("pipe not done")
	}
	assert.ErrorIs(t, pipe.Err(), ErrClosed)
	assert.True(t, in.IsClosed())
	assert.ErrorIs(t, in.Send(3), ErrClosed)
	assert.Equal(t, uint64(1), pipe.Len())
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (x *syncBuffer) Write(p []byte) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buf.Write(p)
}

func (x *syncBuffer) String() string {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buf.String()
}

func TestPipe_logs(t *testing.T) {
	var buf syncBuffer
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(&buf), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()

	in, out := Make[int](1, WithLogger(logger)), Make[int](1, WithLogger(logger))
	pipe := NewPipe(in, out, WithLogger(logger))
	require.NoError(t, in.Send(1))
	in.Close()
	v, ok := out.Receive()
	require.True(t, ok)
	require.Equal(t, 1, v)
	<-pipe.Done()
	out.Destroy()

	logs := buf.String()
	assert.Equal(t, 2, strings.Count(logs, `"msg":"channel closed"`), logs)
	assert.Equal(t, 1, strings.Count(logs, `"msg":"pipe exited"`), logs)
	assert.Equal(t, 1, strings.Count(logs, `"msg":"channel destroyed"`), logs)
	assert.Contains(t, logs, `"channel":"`+in.ID().String()+`"`)
}

func TestPipe_nilPanics(t *testing.T) {
	assert.Panics(t, func() { NewPipe[int](nil, Make[int](0)) })
	assert.Panics(t, func() { NewPipe(Make[int](0), nil) })
}
