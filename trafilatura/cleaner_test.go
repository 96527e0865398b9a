package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<head>
<title>Getting Started - My Docs</title>
<meta property="og:title" content="Getting Started Guide">
</head>
<body>
<nav><a href="/">Home</a><a href="/docs">Docs</a></nav>
<article>
<h1>Getting Started</h1>
<p>This is important documentation content that should be extracted by the cleaner.</p>
<p>It explains how sources are read and how every node kind is produced.</p>
</article>
<footer>Copyright 2024</footer>
</body>
</html>`

func TestCleaner_Clean(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewCleaner().Clean("")

		require.Error(t, err)
		assert.Equal(t, contentobj.EINVALID, contentobj.ErrorCode(err))
	})

	t.Run("extracts title and main content", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewCleaner().Clean(page)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "important documentation content")
		assert.NotContains(t, result.ContentHTML, "Copyright 2024")
	})

	t.Run("accepts link and image options", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewCleaner(trafilatura.WithLinks(), trafilatura.WithImages()).Clean(page)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "every node kind")
	})
}
