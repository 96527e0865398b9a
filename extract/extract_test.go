package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/contentobj"
	"github.com/fwojciec/contentobj/extract"
	"github.com/fwojciec/contentobj/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func source(name, mediaType string, data []byte) *mock.RawSource {
	return &mock.RawSource{
		NameFn:      func() string { return name },
		MediaTypeFn: func() string { return mediaType },
		BytesFn: func(context.Context) ([]byte, error) {
			return data, nil
		},
	}
}

// unusedDetector fails the test if detection is attempted.
func unusedDetector(t *testing.T) *mock.Detector {
	return &mock.Detector{
		DetectBytesFn: func([]byte, string) *contentobj.Detection {
			t.Error("unexpected detection")
			return &contentobj.Detection{}
		},
	}
}

func echoParser(got *contentobj.ParseOptions, html *string) *mock.HTMLParser {
	return &mock.HTMLParser{
		ParseFn: func(h string, opts contentobj.ParseOptions) ([]contentobj.Node, error) {
			if got != nil {
				*got = opts
			}
			if html != nil {
				*html = h
			}
			return []contentobj.Node{contentobj.NewText(h)}, nil
		},
	}
}

func pdfAnalyzer(called *bool) *mock.PDFAnalyzer {
	return &mock.PDFAnalyzer{
		AnalyzeFn: func(_ context.Context, _ []byte, _ contentobj.PDFOptions) *contentobj.PDFDocument {
			if called != nil {
				*called = true
			}
			return &contentobj.PDFDocument{
				Metadata: &contentobj.PDFMetadata{Title: "Report", PagesCount: 1},
				Pages:    []*contentobj.PDFPage{contentobj.NewPDFPage(1, "page one")},
				Provider: "fake",
			}
		},
	}
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("routes declared html to the parser", func(t *testing.T) {
		t.Parallel()

		var opts contentobj.ParseOptions
		e := extract.NewExtractor(unusedDetector(t), echoParser(&opts, nil), pdfAnalyzer(nil))

		res, err := e.Extract(context.Background(),
			source("https://example.com/docs/page", "text/html; charset=utf-8", []byte("<p>hi</p>")),
			extract.DefaultOptions())

		require.NoError(t, err)
		assert.Equal(t, extract.FormatHTML, res.Format)
		assert.Equal(t, "text/html", res.MediaType)
		assert.Nil(t, res.Detection)
		require.Len(t, res.Nodes, 1)
		assert.Equal(t, "<p>hi</p>", res.Nodes[0].TextContent())
		assert.Equal(t, "https://example.com/docs/page", opts.BaseURL)
	})

	t.Run("keeps an explicit base url", func(t *testing.T) {
		t.Parallel()

		var opts contentobj.ParseOptions
		e := extract.NewExtractor(unusedDetector(t), echoParser(&opts, nil), pdfAnalyzer(nil))
		o := extract.DefaultOptions()
		o.Parse.BaseURL = "https://base.example/"

		_, err := e.Extract(context.Background(), source("https://example.com/x", "text/html", []byte("<p>x</p>")), o)

		require.NoError(t, err)
		assert.Equal(t, "https://base.example/", opts.BaseURL)
	})

	t.Run("routes by extension when no type is declared", func(t *testing.T) {
		t.Parallel()

		var called bool
		e := extract.NewExtractor(unusedDetector(t), echoParser(nil, nil), pdfAnalyzer(&called))

		res, err := e.Extract(context.Background(), source("report.PDF", "", []byte("%PDF-1.4")), extract.DefaultOptions())

		require.NoError(t, err)
		assert.True(t, called)
		assert.Equal(t, extract.FormatPDF, res.Format)
		require.NotNil(t, res.PDF)
		assert.Equal(t, "fake", res.PDF.Provider)
		require.Len(t, res.Nodes, 2)
		assert.Equal(t, contentobj.KindPDFMetadata, res.Nodes[0].Kind())
		assert.Equal(t, contentobj.KindPDFPage, res.Nodes[1].Kind())
	})

	t.Run("detects the format of unlabelled content", func(t *testing.T) {
		t.Parallel()

		var hint string
		detector := &mock.Detector{
			DetectBytesFn: func(_ []byte, nameHint string) *contentobj.Detection {
				hint = nameHint
				return &contentobj.Detection{MediaType: "text/html", Encoding: "utf-8", IsText: true}
			},
		}
		e := extract.NewExtractor(detector, echoParser(nil, nil), pdfAnalyzer(nil))

		res, err := e.Extract(context.Background(),
			source("https://example.com/files/index", "", []byte("<html><p>x</p></html>")),
			extract.DefaultOptions())

		require.NoError(t, err)
		assert.Equal(t, "index", hint)
		assert.Equal(t, extract.FormatHTML, res.Format)
		require.NotNil(t, res.Detection)
		assert.Equal(t, "text/html", res.MediaType)
	})

	t.Run("decodes detected text as a single node", func(t *testing.T) {
		t.Parallel()

		detector := &mock.Detector{
			DetectBytesFn: func([]byte, string) *contentobj.Detection {
				return &contentobj.Detection{MediaType: "text/plain", Encoding: "iso-8859-1", IsText: true}
			},
		}
		e := extract.NewExtractor(detector, echoParser(nil, nil), pdfAnalyzer(nil))

		res, err := e.Extract(context.Background(), source("notes", "", []byte("caf\xe9")), extract.DefaultOptions())

		require.NoError(t, err)
		assert.Equal(t, extract.FormatText, res.Format)
		require.Len(t, res.Nodes, 1)
		assert.Equal(t, "café", res.Nodes[0].TextContent())
	})

	t.Run("returns no nodes for binary content", func(t *testing.T) {
		t.Parallel()

		detector := &mock.Detector{
			DetectBytesFn: func([]byte, string) *contentobj.Detection {
				return &contentobj.Detection{MediaType: "image/png", IsBinary: true}
			},
		}
		e := extract.NewExtractor(detector, echoParser(nil, nil), pdfAnalyzer(nil))

		res, err := e.Extract(context.Background(), source("logo", "", []byte{0x89, 'P', 'N', 'G'}), extract.DefaultOptions())

		require.NoError(t, err)
		assert.Equal(t, extract.FormatBinary, res.Format)
		assert.Equal(t, "image/png", res.MediaType)
		assert.Empty(t, res.Nodes)
	})

	t.Run("propagates read errors", func(t *testing.T) {
		t.Parallel()

		src := &mock.RawSource{
			BytesFn: func(context.Context) ([]byte, error) {
				return nil, contentobj.Errorf(contentobj.EUNAVAILABLE, "unreachable")
			},
		}
		e := extract.NewExtractor(unusedDetector(t), echoParser(nil, nil), pdfAnalyzer(nil))

		_, err := e.Extract(context.Background(), src, extract.DefaultOptions())

		assert.Equal(t, contentobj.EUNAVAILABLE, contentobj.ErrorCode(err))
	})

	t.Run("turns parse errors into warnings", func(t *testing.T) {
		t.Parallel()

		parser := &mock.HTMLParser{
			ParseFn: func(string, contentobj.ParseOptions) ([]contentobj.Node, error) {
				return nil, errors.New("bad markup")
			},
		}
		e := extract.NewExtractor(unusedDetector(t), parser, pdfAnalyzer(nil))

		res, err := e.Extract(context.Background(), source("a.html", "", []byte("<")), extract.DefaultOptions())

		require.NoError(t, err)
		assert.Empty(t, res.Nodes)
		assert.Equal(t, []string{"parse: bad markup"}, res.Warnings)
	})

	t.Run("assigns ids when asked", func(t *testing.T) {
		t.Parallel()

		e := extract.NewExtractor(unusedDetector(t), echoParser(nil, nil), pdfAnalyzer(nil))
		opts := extract.DefaultOptions()
		opts.AssignIDs = true

		res, err := e.Extract(context.Background(), source("a.html", "", []byte("<p>x</p>")), opts)

		require.NoError(t, err)
		require.Len(t, res.Nodes, 1)
		assert.Len(t, res.Nodes[0].Base().ID, 16)
	})
}

func TestExtractor_Clean(t *testing.T) {
	t.Parallel()

	t.Run("parses the cleaned content", func(t *testing.T) {
		t.Parallel()

		var parsed string
		cleaner := &mock.Cleaner{
			CleanFn: func(string) (*contentobj.CleanResult, error) {
				return &contentobj.CleanResult{Title: "Main", ContentHTML: "<article>body</article>"}, nil
			},
		}
		e := extract.NewExtractor(unusedDetector(t), echoParser(nil, &parsed), pdfAnalyzer(nil), extract.WithCleaner(cleaner))
		opts := extract.DefaultOptions()
		opts.Clean = true

		res, err := e.Extract(context.Background(), source("a.html", "", []byte("<nav>x</nav><article>body</article>")), opts)

		require.NoError(t, err)
		assert.Equal(t, "Main", res.Title)
		assert.Equal(t, "<article>body</article>", parsed)
		assert.Empty(t, res.Warnings)
	})

	t.Run("falls back to the full page", func(t *testing.T) {
		t.Parallel()

		for _, tc := range []struct {
			name    string
			result  *contentobj.CleanResult
			err     error
			warning string
		}{
			{"on error", nil, errors.New("no article"), "clean: no article"},
			{"on empty content", &contentobj.CleanResult{ContentHTML: "  "}, nil, "clean: no main content found"},
		} {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				var parsed string
				cleaner := &mock.Cleaner{
					CleanFn: func(string) (*contentobj.CleanResult, error) {
						return tc.result, tc.err
					},
				}
				e := extract.NewExtractor(unusedDetector(t), echoParser(nil, &parsed), pdfAnalyzer(nil), extract.WithCleaner(cleaner))
				opts := extract.DefaultOptions()
				opts.Clean = true

				res, err := e.Extract(context.Background(), source("a.html", "", []byte("<p>full</p>")), opts)

				require.NoError(t, err)
				assert.Equal(t, "<p>full</p>", parsed)
				assert.Equal(t, []string{tc.warning}, res.Warnings)
			})
		}
	})

	t.Run("skips the cleaner unless asked", func(t *testing.T) {
		t.Parallel()

		cleaner := &mock.Cleaner{
			CleanFn: func(string) (*contentobj.CleanResult, error) {
				t.Error("unexpected clean")
				return nil, nil
			},
		}
		e := extract.NewExtractor(unusedDetector(t), echoParser(nil, nil), pdfAnalyzer(nil), extract.WithCleaner(cleaner))

		_, err := e.Extract(context.Background(), source("a.html", "", []byte("<p>x</p>")), extract.DefaultOptions())

		require.NoError(t, err)
	})
}

func TestDecodeHTML(t *testing.T) {
	t.Parallel()

	t.Run("uses the declared charset", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "<p>café</p>", extract.DecodeHTML([]byte("<p>caf\xe9</p>"), "text/html; charset=windows-1252"))
	})

	t.Run("uses a meta declaration", func(t *testing.T) {
		t.Parallel()

		got := extract.DecodeHTML([]byte("<meta charset=\"iso-8859-1\"><p>na\xefve</p>"), "")
		assert.Contains(t, got, "naïve")
	})

	t.Run("drops a utf-8 byte order mark", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "<p>x</p>", extract.DecodeHTML([]byte("\xEF\xBB\xBF<p>x</p>"), ""))
	})
}

func TestAssignIDs(t *testing.T) {
	t.Parallel()

	build := func() []contentobj.Node {
		list := contentobj.NewList(contentobj.ListUnordered)
		for _, s := range []string{"a", "a"} {
			require.NoError(t, contentobj.AddChild(list, contentobj.NewListItem(s)))
		}
		return []contentobj.Node{contentobj.NewHeading("Title", 1), list}
	}

	first, second := build(), build()
	extract.AssignIDs(first)
	extract.AssignIDs(second)

	items := first[1].Base().Children()
	assert.NotEmpty(t, first[0].Base().ID)
	assert.Equal(t, first[0].Base().ID, second[0].Base().ID)
	assert.Equal(t, items[0].Base().ID, second[1].Base().Children()[0].Base().ID)
	assert.NotEqual(t, items[0].Base().ID, items[1].Base().ID)
	assert.NotEqual(t, first[0].Base().ID, first[1].Base().ID)
}
