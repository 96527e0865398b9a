package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/contentobj"
	"golang.org/x/net/html"
)

// Ensure Parser implements contentobj.HTMLParser.
var _ contentobj.HTMLParser = (*Parser)(nil)

// removedTags are dropped from the tree after scripts and styles have been
// collected. Their content is never part of the structural output.
const removedTags = "script, style, noscript, iframe, embed, object"

// handler turns one element into zero or more nodes.
type handler func(w *walker, sel *goquery.Selection) []contentobj.Node

// headingTags selects the heading elements.
const headingTags = "h1, h2, h3, h4, h5, h6"

// flattening lists the handlers that read their element's text instead of
// walking its children. Headings inside them are emitted after the node.
var flattening = map[string]bool{
	"a": true, "img": true, "video": true, "audio": true, "table": true,
	"ul": true, "ol": true, "pre": true, "code": true,
}

// Parser turns HTML into content nodes using goquery.
//
// Elements are dispatched through a table of tag handlers; tags without a
// handler are transparent and their children are parsed in place.
type Parser struct {
	handlers map[string]handler
}

// NewParser creates a Parser with the standard tag handlers registered.
func NewParser() *Parser {
	p := &Parser{handlers: make(map[string]handler)}
	for _, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		p.handlers[tag] = (*walker).heading
	}
	p.handlers["p"] = (*walker).paragraph
	p.handlers["a"] = (*walker).link
	p.handlers["img"] = (*walker).image
	p.handlers["video"] = (*walker).video
	p.handlers["audio"] = (*walker).audio
	p.handlers["table"] = (*walker).table
	p.handlers["ul"] = (*walker).list
	p.handlers["ol"] = (*walker).list
	p.handlers["pre"] = (*walker).pre
	p.handlers["code"] = (*walker).code
	p.handlers["br"] = (*walker).lineBreak
	p.handlers["hr"] = (*walker).rule
	return p
}

// Parse parses html into a flat node list: scripts, then styles, then the
// structural content of the body in document order.
func (p *Parser) Parse(htmlContent string, opts contentobj.ParseOptions) ([]contentobj.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, contentobj.Errorf(contentobj.EINVALID, "failed to parse HTML: %v", err)
	}

	w := &walker{opts: opts, handlers: p.handlers}
	if opts.ResolveRelativeURLs && opts.BaseURL != "" {
		if base, err := url.Parse(opts.BaseURL); err == nil {
			w.base = base
		}
	}

	var nodes []contentobj.Node
	if opts.ExtractScripts {
		nodes = append(nodes, w.scripts(doc)...)
	}
	if opts.ExtractStyles {
		nodes = append(nodes, w.styles(doc)...)
	}

	doc.Find(removedTags).Remove()

	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}
	nodes = append(nodes, w.children(root)...)
	return nodes, nil
}

type walker struct {
	opts     contentobj.ParseOptions
	base     *url.URL
	handlers map[string]handler
}

// walk converts a single-node selection.
func (w *walker) walk(sel *goquery.Selection) (nodes []contentobj.Node) {
	n := sel.Get(0)
	switch n.Type {
	case html.TextNode:
		if text := collapse(n.Data); text != "" {
			return []contentobj.Node{contentobj.NewText(text)}
		}
		return nil
	case html.ElementNode:
		h, ok := w.handlers[n.Data]
		if !ok {
			return w.children(sel)
		}
		// A failing handler drops its element and nothing else.
		defer func() {
			if recover() != nil {
				nodes = nil
			}
		}()
		nodes = h(w, sel)
		if flattening[n.Data] {
			nodes = append(nodes, w.nestedHeadings(sel)...)
		}
		return nodes
	case html.DocumentNode:
		return w.children(sel)
	}
	return nil
}

// nestedHeadings converts the heading elements below sel in document order.
func (w *walker) nestedHeadings(sel *goquery.Selection) []contentobj.Node {
	var nodes []contentobj.Node
	sel.Find(headingTags).Each(func(_ int, h *goquery.Selection) {
		nodes = append(nodes, w.heading(h)...)
	})
	return nodes
}

func (w *walker) children(sel *goquery.Selection) []contentobj.Node {
	var nodes []contentobj.Node
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		nodes = append(nodes, w.walk(c)...)
	})
	return nodes
}

// resolve resolves ref against the base URL. Without a base, or when ref
// does not parse, ref is returned unchanged.
func (w *walker) resolve(ref string) string {
	if w.base == nil || ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return w.base.ResolveReference(u).String()
}

func (w *walker) scripts(doc *goquery.Document) []contentobj.Node {
	var nodes []contentobj.Node
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		typ := sel.AttrOr("type", "")
		var script *contentobj.Script
		if src := strings.TrimSpace(sel.AttrOr("src", "")); src != "" {
			script = contentobj.NewExternalScript(w.resolve(src), typ)
		} else {
			script = contentobj.NewScript(strings.TrimSpace(sel.Text()), typ)
		}
		_, script.Defer = sel.Attr("defer")
		_, script.Async = sel.Attr("async")
		script.Position = position(sel)
		nodes = append(nodes, script)
	})
	return nodes
}

// styles collects <style> blocks and stylesheet links in document order,
// then style attributes.
func (w *walker) styles(doc *goquery.Document) []contentobj.Node {
	var nodes []contentobj.Node
	doc.Find("style, link[rel]").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "link" {
			href := strings.TrimSpace(sel.AttrOr("href", ""))
			if !isStylesheet(sel.AttrOr("rel", "")) || href == "" {
				return
			}
			style := contentobj.NewStyle("", false)
			style.SrcURL = w.resolve(href)
			style.Media = sel.AttrOr("media", "")
			style.Position = position(sel)
			nodes = append(nodes, style)
			return
		}
		style := contentobj.NewStyle(strings.TrimSpace(sel.Text()), false)
		style.Media = sel.AttrOr("media", "")
		style.Position = position(sel)
		nodes = append(nodes, style)
	})

	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		content := strings.TrimSpace(sel.AttrOr("style", ""))
		if content == "" {
			return
		}
		style := contentobj.NewStyle(content, true)
		style.SetMeta("element_tag", goquery.NodeName(sel))
		style.SetMeta("element_id", sel.AttrOr("id", ""))
		style.SetMeta("element_class", sel.AttrOr("class", ""))
		style.Position = position(sel)
		nodes = append(nodes, style)
	})
	return nodes
}

func isStylesheet(rel string) bool {
	for _, r := range strings.Fields(strings.ToLower(rel)) {
		if r == "stylesheet" {
			return true
		}
	}
	return false
}

// collapse trims s and replaces every whitespace run with a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
