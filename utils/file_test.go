package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUniqSubDir(t *testing.T) {
	parent := t.TempDir()
	a, err := GetUniqSubDir(parent)
	require.NoError(t, err)
	b, err := GetUniqSubDir(parent)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.DirExists(t, a)
	assert.DirExists(t, b)
	assert.Equal(t, parent, filepath.Dir(a))
}

func TestGetFilenameWithoutExt(t *testing.T) {
	assert.Equal(t, "scene", GetFilenameWithoutExt("/data/scene.TIF"))
	assert.Equal(t, "scene", GetFilenameWithoutExt("/data/scene.b1.TIF"))
	assert.Equal(t, "scene", GetFilenameWithoutExt("scene"))
}

func TestMovePathFilesDir(t *testing.T) {
	src := t.TempDir()
	srcDir := filepath.Join(src, "scene.tms")
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "7"), os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "7", "0.png"), []byte("png"), os.ModePerm))

	dest := t.TempDir()
	// 目标处已有同名子树，应被覆盖
	stale := filepath.Join(dest, "scene.tms", "9")
	require.NoError(t, os.MkdirAll(stale, os.ModePerm))

	require.NoError(t, MovePathFiles(srcDir, dest))
	assert.NoDirExists(t, srcDir)
	assert.FileExists(t, filepath.Join(dest, "scene.tms", "7", "0.png"))
	assert.NoDirExists(t, stale)
}

func TestMovePathFilesFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "scene.xml")
	require.NoError(t, os.WriteFile(src, []byte("<x/>"), os.ModePerm))
	dest := t.TempDir()

	require.NoError(t, MovePathFiles(src, dest))
	assert.NoFileExists(t, src)
	assert.FileExists(t, filepath.Join(dest, "scene.xml"))
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), os.ModePerm))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "f.txt"), []byte("x"), os.ModePerm))

	dest := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, CopyDir(src, dest))
	data, err := os.ReadFile(filepath.Join(dest, "a", "b", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
