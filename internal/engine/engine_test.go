package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("not a real pdf"), 0o644))
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b-statement.pdf")
	touch(t, dir, "a-statement.PDF")
	touch(t, dir, "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	files, err := CollectFiles(dir, nil)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "a-statement.PDF"), files[0])
	assert.Equal(t, filepath.Join(dir, "b-statement.pdf"), files[1])
}

func TestCollectFilesGlobs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "desjardins-2024-01.pdf")
	touch(t, dir, "desjardins-2023-12.pdf")
	touch(t, dir, "td-2024-01.pdf")

	files, err := CollectFiles(dir, []string{"desjardins-2024-*.pdf"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "desjardins-2024-01.pdf"), files[0])

	files, err = CollectFiles(dir, []string{"Desjardins-*.pdf", "td-*.pdf"})
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestCollectFilesMissingDir(t *testing.T) {
	_, err := CollectFiles(filepath.Join(t.TempDir(), "absent"), nil)
	assert.Error(t, err)
}

func TestRunNoFiles(t *testing.T) {
	_, _, err := Run(context.Background(), Options{
		InputDir: t.TempDir(),
		Log:      zerolog.Nop(),
	})
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestRunAllDocumentsUnreadable(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "garbage.pdf")

	_, summary, err := Run(context.Background(), Options{
		InputDir: dir,
		Log:      zerolog.Nop(),
	})
	assert.ErrorIs(t, err, ErrNoDocuments)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.DocumentsSkipped)
	assert.Equal(t, []string{"garbage.pdf"}, summary.Unparsed)
}

func TestRunUnknownBank(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")

	_, _, err := Run(context.Background(), Options{
		InputDir: dir,
		Bank:     "rbc",
		Log:      zerolog.Nop(),
	})
	assert.ErrorContains(t, err, "unknown bank")
}

func TestRunCancelledContext(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Run(ctx, Options{InputDir: dir, Log: zerolog.Nop()})
	assert.ErrorIs(t, err, context.Canceled)
}
