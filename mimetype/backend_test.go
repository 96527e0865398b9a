package mimetype_test

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/detect"
	"github.com/fwojciec/contentobj/mimetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_Init(t *testing.T) {
	t.Parallel()

	require.NoError(t, mimetype.NewBackend().Init())
}

func TestBackend_MediaType(t *testing.T) {
	t.Parallel()

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, image.NewGray(image.Rect(0, 0, 1, 1))))

	b := mimetype.NewBackend()
	require.NoError(t, b.Init())

	for _, tc := range []struct {
		name string
		data []byte
		want string
	}{
		{"pdf", []byte("%PDF-1.7\n1 0 obj\n"), "application/pdf"},
		{"png", pngBuf.Bytes(), "image/png"},
		{"html", []byte("<!DOCTYPE html><html><body><p>hi</p></body></html>"), "text/html"},
		{"plain text", []byte("just some words"), "text/plain"},
	} {
		got, err := b.MediaType(tc.data)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestBackend_Encoding(t *testing.T) {
	t.Parallel()

	b := mimetype.NewBackend()
	require.NoError(t, b.Init())

	enc, err := b.Encoding([]byte("hello world"))

	require.NoError(t, err)
	assert.Equal(t, "utf-8", enc)
}

func TestBackend_WithDetector(t *testing.T) {
	t.Parallel()

	d := detect.NewDetector(mimetype.NewBackend())

	det := d.DetectBytes([]byte("%PDF-1.4\nrest of file"), "")

	assert.Equal(t, detect.StateAvailable, d.State())
	assert.Equal(t, contentobj.MethodPrimaryBytes, det.Method)
	assert.Equal(t, "application/pdf", det.MediaType)
	assert.True(t, det.IsBinary)
}
