package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qjpcpu/condchan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_defaultConfig(t *testing.T) {
	require.NoError(t, run("", 3, 2, 50))
}

func TestRun_configFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: warning
channels:
  - {name: jobs, type: int, capacity: 1}
  - {name: results, type: int, capacity: 16}
`), 0o600))
	require.NoError(t, run(path, 5, 1, 20))
}

func TestRun_wrongType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
channels:
  - {name: jobs, type: string, capacity: 1}
  - {name: results, type: int}
`), 0o600))
	assert.ErrorIs(t, run(path, 1, 1, 1), condchan.ErrTypeMismatch)
}

func TestExchange(t *testing.T) {
	for _, c := range []int{0, 1, 8} {
		in := condchan.Make[int](c)
		out := condchan.Make[int](c)
		pipe := condchan.NewPipe(in, out)

		sum, count, err := exchange(in, out, 4, 3, 10)
		require.NoError(t, err)
		<-pipe.Done()
		assert.Equal(t, int64(40), count)
		assert.Equal(t, int64(4*55), sum)
	}
}
