package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withParamsDir(t *testing.T) {
	t.Helper()
	old := ParamsPath
	ParamsPath = filepath.Join(t.TempDir(), "params", "d")
	t.Cleanup(func() { ParamsPath = old })
	EnsureParamDirectories()
}

func TestPutGetRemoveParam(t *testing.T) {
	withParamsDir(t)

	require.NoError(t, PutParam(ENGINE_SETTINGS, []byte(`{"log_level":"info"}`)))
	data, err := GetParam(ENGINE_SETTINGS)
	require.NoError(t, err)
	assert.Equal(t, `{"log_level":"info"}`, string(data))

	require.NoError(t, PutParam(ENGINE_SETTINGS, []byte(`{}`)))
	data, err = GetParam(ENGINE_SETTINGS)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))

	names, err := GetParams()
	require.NoError(t, err)
	assert.Equal(t, []string{ENGINE_SETTINGS}, names)

	require.NoError(t, RemoveParam(ENGINE_SETTINGS))
	_, err = GetParam(ENGINE_SETTINGS)
	assert.Error(t, err)
	assert.NoError(t, RemoveParam(ENGINE_SETTINGS), "removing a missing param")

	exists, err := Exists(filepath.Join(filepath.Dir(ParamsPath), ".lock"))
	require.NoError(t, err)
	assert.False(t, exists, "lock file is cleaned up")
}

func TestIsString(t *testing.T) {
	assert.True(t, IsString([]byte("hello\tworld\n")))
	assert.False(t, IsString([]byte{0x00, 0xff}))
}

func TestGetParamsSkipsHidden(t *testing.T) {
	withParamsDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(ParamsPath, ".hidden"), []byte("x"), 0o644))
	require.NoError(t, PutParam(LAST_EPISODE, []byte("x")))
	names, err := GetParams()
	require.NoError(t, err)
	assert.Equal(t, []string{LAST_EPISODE}, names)
}
