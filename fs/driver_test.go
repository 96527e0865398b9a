package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/fs"
	"github.com/fwojciec/contentobj/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDriver_Content(t *testing.T) {
	t.Parallel()

	t.Run("reads the file", func(t *testing.T) {
		t.Parallel()

		d := fs.NewDriver(writeFile(t, "a.txt", []byte("hello")), nil)

		data, err := d.Content(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
		assert.True(t, d.Available(context.Background()))
	})

	t.Run("missing file is not found", func(t *testing.T) {
		t.Parallel()

		d := fs.NewDriver(filepath.Join(t.TempDir(), "missing.txt"), nil)

		_, err := d.Content(context.Background())

		assert.Equal(t, contentobj.ENOTFOUND, contentobj.ErrorCode(err))
		assert.False(t, d.Available(context.Background()))
	})
}

func TestDriver_FileInfo(t *testing.T) {
	t.Parallel()

	t.Run("merges detection and stat fields", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "Page.HTML", []byte("<p>hi</p>"))
		d := fs.NewDriver(path, nil)

		info, err := d.FileInfo()

		require.NoError(t, err)
		assert.Equal(t, "text/html", info["media_type"])
		assert.Equal(t, "utf-8", info["encoding"])
		assert.Equal(t, true, info["is_text"])
		assert.Equal(t, false, info["is_binary"])
		assert.Equal(t, contentobj.MethodFallbackFile, info["method"])
		assert.Equal(t, "Page.HTML", info["name"])
		assert.Equal(t, ".html", info["extension"])
		assert.Equal(t, int64(9), info["size"])
		assert.NotEmpty(t, info["modified"])
	})

	t.Run("is computed once", func(t *testing.T) {
		t.Parallel()

		calls := 0
		detector := &mock.Detector{
			DetectFileFn: func(path string) (*contentobj.Detection, error) {
				calls++
				return &contentobj.Detection{MediaType: "text/plain", IsText: true, Encoding: "utf-8"}, nil
			},
		}
		d := fs.NewDriver(writeFile(t, "a.txt", []byte("x")), detector)

		_, err := d.FileInfo()
		require.NoError(t, err)
		_, err = d.Metadata(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
	})

	t.Run("missing file is not found", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewDriver(filepath.Join(t.TempDir(), "x"), nil).FileInfo()

		assert.Equal(t, contentobj.ENOTFOUND, contentobj.ErrorCode(err))
	})
}

func TestDriver_Text(t *testing.T) {
	t.Parallel()

	t.Run("strips the bom", func(t *testing.T) {
		t.Parallel()

		d := fs.NewDriver(writeFile(t, "bom.txt", []byte("\xEF\xBB\xBFhello")), nil)

		text, err := d.Text(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "hello", text)
	})

	t.Run("decodes legacy single-byte text", func(t *testing.T) {
		t.Parallel()

		d := fs.NewDriver(writeFile(t, "legacy.txt", []byte("caf\xE9")), nil)

		text, err := d.Text(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "café", text)
	})

	t.Run("rejects binary files", func(t *testing.T) {
		t.Parallel()

		d := fs.NewDriver(writeFile(t, "doc.pdf", []byte("%PDF-1.4")), nil)

		_, err := d.Text(context.Background())

		assert.Equal(t, contentobj.EINVALID, contentobj.ErrorCode(err))
	})
}

func TestCanHandle(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "a.txt", []byte("x"))

	assert.True(t, fs.CanHandle(path))
	assert.False(t, fs.CanHandle(filepath.Dir(path)))
	assert.False(t, fs.CanHandle(path+".missing"))
	assert.False(t, fs.CanHandle([]byte(path)))
}
