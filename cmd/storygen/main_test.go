package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xob0t/storygen/pkg/picker"
	"github.com/xob0t/storygen/pkg/story"
)

func writeBackground(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, color.RGBA{uint8(x / 3), uint8(y / 2), 90, 255})
		}
	}
	path := filepath.Join(dir, "fundo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := realMain(context.Background(), append([]string{"storygen"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir)
	out := filepath.Join(dir, "out", "story.png")

	stdout, _, err := run(t,
		"-message", "O Senhor é o meu pastor",
		"-attribution", "Salmos 23:1",
		"-background", bg,
		"-staging", filepath.Join(dir, "uploads"),
		"-o", out,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, story.Width, cfg.Width)
	assert.Equal(t, story.Height, cfg.Height)

	// The background was staged before use.
	_, err = os.Stat(filepath.Join(dir, "uploads", "fundo.png"))
	assert.NoError(t, err)
}

func TestGenerateFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir)
	out := filepath.Join(dir, "env.png")

	t.Setenv("STORYGEN_MESSAGE", "Tudo posso")
	t.Setenv("STORYGEN_BACKGROUND", bg)
	t.Setenv("STORYGEN_STAGING", filepath.Join(dir, "uploads"))
	t.Setenv("STORYGEN_O", out)

	_, _, err := run(t)
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestGenerateFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir)
	out := filepath.Join(dir, "conf.png")

	conf := filepath.Join(dir, "storygen.conf")
	body := "message Tudo posso\n" +
		"background " + bg + "\n" +
		"staging " + filepath.Join(dir, "uploads") + "\n" +
		"o " + out + "\n"
	require.NoError(t, os.WriteFile(conf, []byte(body), 0644))

	_, _, err := run(t, "-config", conf)
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestMissingInput(t *testing.T) {
	dir := t.TempDir()
	bg := writeBackground(t, dir)
	out := filepath.Join(dir, "never.png")

	_, _, err := run(t, "-background", bg, "-staging", dir, "-o", out)
	assert.ErrorIs(t, err, story.ErrNoMessage)
	assert.Equal(t, story.PromptMessage, describe(err))

	_, _, err = run(t, "-message", "hello", "-staging", dir, "-o", out)
	assert.ErrorIs(t, err, story.ErrNoBackground)
	assert.Equal(t, story.PromptBackground, describe(err))

	assert.NoFileExists(t, out)
}

func TestBadColor(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "-message", "x", "-background", writeBackground(t, dir), "-staging", dir, "-text-color", "white")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-text-color")
}

func TestHelpListsExtensions(t *testing.T) {
	_, stderr, err := run(t, "-h")
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, stderr, "png, jpg, jpeg, webp")
}

func TestFontsCommand(t *testing.T) {
	stdout, _, err := run(t, "fonts", "-font", filepath.Join(t.TempDir(), "missing.ttf"))
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, story.PromptBackground, describe(picker.ErrCancelled))
	assert.Equal(t, "boom", describe(errors.New("boom")))

	ge := &story.GenerateError{Op: "decode", Path: "x.png", Err: errors.New("bad header")}
	assert.Contains(t, describe(ge), story.FailureMessage)
	assert.Contains(t, describe(ge), "bad header")
}
