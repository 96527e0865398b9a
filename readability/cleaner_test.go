package readability_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<head><title>Release Notes</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article>
<h1>Release Notes</h1>
<p>This release adds typed content extraction for HTML pages and PDF documents.</p>
<p>Tables, lists and code blocks are preserved with their structure intact.</p>
<p>See the <a href="guide.html">guide</a> for details on every new option.</p>
</article>
<footer><p>Footer copyright text 2024</p></footer>
</body>
</html>`

func TestCleaner_Clean(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewCleaner().Clean("  ")

		require.Error(t, err)
		assert.Equal(t, contentobj.EINVALID, contentobj.ErrorCode(err))
	})

	t.Run("keeps the article and drops boilerplate", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewCleaner().Clean(page)

		require.NoError(t, err)
		assert.Equal(t, "Release Notes", result.Title)
		assert.Contains(t, result.ContentHTML, "typed content extraction")
		assert.NotContains(t, result.ContentHTML, "Home Nav Link")
		assert.NotContains(t, result.ContentHTML, "Footer copyright text")
	})

	t.Run("resolves links against the page url", func(t *testing.T) {
		t.Parallel()

		u, err := url.Parse("https://example.com/docs/notes.html")
		require.NoError(t, err)

		result, err := readability.NewCleaner(readability.WithPageURL(u)).Clean(page)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "https://example.com/docs/guide.html")
	})
}
