package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetParam(t *testing.T) {
	base := filepath.Join(t.TempDir(), "d")
	require.NoError(t, os.MkdirAll(base, 0o775))

	path := filepath.Join(base, "AccSettings")
	require.NoError(t, PutParam(path, []byte(`{"a":1}`)))

	data, err := GetParam(path)
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(data))

	// overwrite is atomic and leaves no temp files behind
	require.NoError(t, PutParam(path, []byte(`{"a":2}`)))
	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRemoveParam(t *testing.T) {
	base := filepath.Join(t.TempDir(), "d")
	require.NoError(t, os.MkdirAll(base, 0o775))

	path := filepath.Join(base, "LastVehiclePosition")
	require.NoError(t, PutParam(path, []byte("0,0")))
	require.NoError(t, RemoveParam(path))

	exists, err := Exists(path)
	require.NoError(t, err)
	require.False(t, exists)
}
