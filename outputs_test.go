package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToFilename(t *testing.T) {
	for in, want := range map[string]string{
		"a.png":        "a_(copy).png",
		"dir/a.b.png":  "dir/a.b_(copy).png",
		"noext":        "noext_(copy)",
		"dir/.hidden":  "dir/.hidden_(copy)",
		"a_(copy).png": "a_(copy)_(copy).png",
	} {
		assert.Equal(t, want, appendToFilename(in, "_(copy)"), in)
	}
}

func TestPrepareOutputDirectory(t *testing.T) {
	dir := t.TempDir()

	got, err := prepareOutputDirectory(filepath.Join(dir, "new", "atlas"), pathFiles)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "new"), got)
	assert.DirExists(t, got)

	got, err = prepareOutputDirectory(filepath.Join(dir, "textures"), pathDirectory)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "textures"), got)
	assert.DirExists(t, got)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = prepareOutputDirectory(file, pathDirectory)
	assert.ErrorIs(t, err, errInvalidOutput)
	_, err = prepareOutputDirectory(filepath.Join(file, "atlas"), pathFiles)
	assert.ErrorIs(t, err, errInvalidOutput)
}

func TestNotifyOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atlas.png")
	assert.NoError(t, notifyOverwrite(path, false))

	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.ErrorIs(t, notifyOverwrite(path, false), errFileExists)
	assert.NoError(t, notifyOverwrite(path, true))
}

func TestCountOverwrites(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(a, nil, 0644))
	assert.Equal(t, 1, countOverwrites([]string{a, filepath.Join(dir, "b.png")}))
	assert.Equal(t, 0, countOverwrites(nil))
}
