package picker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/storygen/pkg/staging"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()

	got, err := Static("bg.png").Pick(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bg.png", got)

	_, err = Static("  ").Pick(ctx)
	assert.ErrorIs(t, err, ErrCancelled)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Static("bg.png").Pick(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaged(t *testing.T) {
	src := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(src, []byte("jpeg"), 0644))

	st, err := staging.New(filepath.Join(t.TempDir(), "uploads"), nil)
	require.NoError(t, err)

	p := Staged{Picker: Static(src), Stager: st}
	got, err := p.Pick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(st.Dir(), "photo.jpg"), got)
	assert.FileExists(t, got)

	p.Picker = Static("")
	_, err = p.Pick(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)

	p.Picker = Func(func(context.Context) (string, error) { return "notes.txt", nil })
	_, err = p.Pick(context.Background())
	assert.True(t, errors.Is(err, staging.ErrUnsupportedType))
}
