package contentobj

// ParseOptions configures HTML parsing. Each switch is independent.
type ParseOptions struct {
	// BaseURL resolves relative links and media sources.
	BaseURL string

	ExtractScripts      bool
	ExtractStyles       bool
	ExtractImages       bool
	ExtractLinks        bool
	ResolveRelativeURLs bool
}

// DefaultParseOptions returns options with every extraction switch on.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		ExtractScripts:      true,
		ExtractStyles:       true,
		ExtractImages:       true,
		ExtractLinks:        true,
		ResolveRelativeURLs: true,
	}
}

// HTMLParser turns HTML into content nodes.
//
// The result is flat at document scope: scripts and styles first, then
// text, headings, links, media and code in document order. Only Table,
// List and ListItem carry structure, and nested lists hang off list items.
type HTMLParser interface {
	Parse(html string, opts ParseOptions) ([]Node, error)
}

// CleanResult is main content extracted from an HTML page.
type CleanResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as HTML with boilerplate removed.
	ContentHTML string
}

// Cleaner reduces an HTML page to its main content.
type Cleaner interface {
	Clean(html string) (*CleanResult, error)
}
