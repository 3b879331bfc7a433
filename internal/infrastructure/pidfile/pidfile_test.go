package pidfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_WritesCurrentPID(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "colony.pid"))

	require.NoError(t, p.Acquire())

	pid, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	require.NoError(t, p.Release())
	_, err = os.Stat(p.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestAcquire_FailsWhileHolderIsAlive(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "colony.pid"))
	require.NoError(t, p.Acquire())

	err := New(p.Path()).Acquire()

	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestAcquire_ReplacesMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colony.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0644))

	p := New(path)
	require.NoError(t, p.Acquire())

	pid, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestRelease_MissingFileIsNotAnError(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "missing.pid"))
	assert.NoError(t, p.Release())
}
