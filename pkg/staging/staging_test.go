package staging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "uploads")
	s, err := New(dir, nil)
	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, dir, s.Dir())

	// Existing directories are fine.
	_, err = New(dir, nil)
	assert.NoError(t, err)
}

func TestAllowed(t *testing.T) {
	for _, name := range []string{"a.png", "b.JPG", "c.jpeg", "d.WebP"} {
		assert.True(t, Allowed(name), name)
	}
	for _, name := range []string{"a.gif", "b", "c.png.exe", ""} {
		assert.False(t, Allowed(name), name)
	}
	assert.Equal(t, []string{"png", "jpg", "jpeg", "webp"}, Extensions())
}

func TestCopyFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "fundo.png")
	require.NoError(t, os.WriteFile(src, []byte("pixels"), 0644))

	s, err := New(filepath.Join(t.TempDir(), "uploads"), nil)
	require.NoError(t, err)

	staged, err := s.CopyFile(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "fundo.png"), staged)

	data, err := os.ReadFile(staged)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	_, err = s.CopyFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = s.CopyFile("notes.txt")
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestCopyFileAlreadyStaged(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, nil)
	require.NoError(t, err)

	src := filepath.Join(dir, "bg.png")
	require.NoError(t, os.WriteFile(src, []byte("original pixels"), 0644))

	staged, err := s.CopyFile(src)
	require.NoError(t, err)
	assert.Equal(t, src, staged)

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "original pixels", string(data))

	// Same file through a relative path.
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(wd) })
	require.NoError(t, os.Chdir(dir))

	rel, err := New(".", nil)
	require.NoError(t, err)
	_, err = rel.CopyFile("bg.png")
	require.NoError(t, err)

	data, err = os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "original pixels", string(data))
}

func TestCopyFileReplacesStagedCopy(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(src, []byte("first"), 0644))
	_, err = s.CopyFile(src)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(src, []byte("second"), 0644))
	staged, err := s.CopyFile(src)
	require.NoError(t, err)

	data, err := os.ReadFile(staged)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestSave(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	staged, err := s.Save("../../etc/my photo.jpg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "my_photo.jpg"), staged)

	staged, err = s.Save(`C:\Users\me\bg.webp`, strings.NewReader("webp"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "bg.webp"), staged)

	_, err = s.Save("..", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSaveFailureRemovesPartial(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = s.Save("bg.png", brokenReader{})
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(s.Dir(), "bg.png"))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file left behind")
}

func TestSaveFailureKeepsPreviousCopy(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = s.Save("bg.png", strings.NewReader("good"))
	require.NoError(t, err)
	_, err = s.Save("bg.png", brokenReader{})
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "bg.png"))
	require.NoError(t, err)
	assert.Equal(t, "good", string(data))
}

func TestSaveUnique(t *testing.T) {
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	a, err := s.SaveUnique("bg.png", bytes.NewReader([]byte("a")))
	require.NoError(t, err)
	b, err := s.SaveUnique("bg.png", bytes.NewReader([]byte("b")))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_bg.png"))

	p, ok := s.Path(filepath.Base(a))
	assert.True(t, ok)
	assert.Equal(t, a, p)

	_, ok = s.Path("../" + filepath.Base(a))
	assert.False(t, ok)
	_, ok = s.Path("missing.png")
	assert.False(t, ok)
	_, ok = s.Path("")
	assert.False(t, ok)
}
