package goquery

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/contentobj"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/net/html/charset"
)

// ruleWidth is the number of box-drawing characters rendered for <hr>.
const ruleWidth = 50

func (w *walker) heading(sel *goquery.Selection) []contentobj.Node {
	text := collapse(sel.Text())
	if text == "" {
		return nil
	}
	level, _ := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(sel), "h"))
	h := contentobj.NewHeading(text, level)
	h.AnchorID = sel.AttrOr("id", "")
	h.Position = position(sel)
	return []contentobj.Node{h}
}

func (w *walker) paragraph(sel *goquery.Selection) []contentobj.Node {
	nodes := w.children(sel)
	if len(nodes) == 1 {
		if t, ok := nodes[0].(*contentobj.Text); ok {
			t.Position = position(sel)
		}
	}
	return nodes
}

func (w *walker) link(sel *goquery.Selection) []contentobj.Node {
	text := collapse(sel.Text())
	href := strings.TrimSpace(sel.AttrOr("href", ""))

	// Links switched off, named anchors without an href and bare "#"
	// placeholders keep only their text.
	if !w.opts.ExtractLinks || href == "" || href == "#" {
		if text == "" {
			return nil
		}
		t := contentobj.NewText(text)
		t.Position = position(sel)
		return []contentobj.Node{t}
	}

	var link *contentobj.Link
	if strings.HasPrefix(href, "#") {
		link = contentobj.NewAnchorLink(text, strings.TrimPrefix(href, "#"))
	} else {
		u := contentobj.NewURL(w.resolve(href))
		u.Title = sel.AttrOr("title", "")
		link = contentobj.NewLink(text, u)
	}
	if title := sel.AttrOr("title", ""); title != "" {
		link.SetMeta("title", title)
	}
	if target := sel.AttrOr("target", ""); target != "" {
		link.SetMeta("target", target)
	}
	link.Position = position(sel)
	return []contentobj.Node{link}
}

func (w *walker) image(sel *goquery.Selection) []contentobj.Node {
	src := strings.TrimSpace(sel.AttrOr("src", ""))
	alt := strings.TrimSpace(sel.AttrOr("alt", ""))

	if !w.opts.ExtractImages {
		if alt == "" {
			return nil
		}
		t := contentobj.NewText("[IMG: " + alt + "]")
		t.Position = position(sel)
		return []contentobj.Node{t}
	}
	if src == "" {
		return nil
	}

	img := contentobj.NewImage(w.mediaSource(src), alt)
	img.Title = sel.AttrOr("title", "")
	img.Dimensions = dimensions(sel)
	if loading := sel.AttrOr("loading", ""); loading != "" {
		img.SetMeta("loading", loading)
	}
	img.Position = position(sel)
	return []contentobj.Node{img}
}

func (w *walker) video(sel *goquery.Selection) []contentobj.Node {
	src := mediaSrc(sel)
	if src == "" {
		return nil
	}
	v := contentobj.NewVideo(w.mediaSource(src))
	v.Title = sel.AttrOr("title", "")
	v.Dimensions = dimensions(sel)
	if poster := strings.TrimSpace(sel.AttrOr("poster", "")); poster != "" {
		v.PosterURL = w.resolve(poster)
	}
	playbackMeta(&v.BaseNode, sel)
	v.Position = position(sel)
	return []contentobj.Node{v}
}

func (w *walker) audio(sel *goquery.Selection) []contentobj.Node {
	src := mediaSrc(sel)
	if src == "" {
		return nil
	}
	a := contentobj.NewAudio(w.mediaSource(src))
	a.Title = sel.AttrOr("title", "")
	playbackMeta(&a.BaseNode, sel)
	a.Position = position(sel)
	return []contentobj.Node{a}
}

// mediaSrc returns the element's src, or the first <source src> inside it.
func mediaSrc(sel *goquery.Selection) string {
	if src := strings.TrimSpace(sel.AttrOr("src", "")); src != "" {
		return src
	}
	return strings.TrimSpace(sel.Find("source[src]").First().AttrOr("src", ""))
}

func playbackMeta(b *contentobj.BaseNode, sel *goquery.Selection) {
	for _, attr := range []string{"controls", "autoplay", "loop", "muted"} {
		_, ok := sel.Attr(attr)
		b.SetMeta(attr, ok)
	}
}

// mediaSource maps a src attribute onto a media source. data: URIs become
// inline payloads; everything else is a URL node.
func (w *walker) mediaSource(src string) contentobj.MediaSource {
	if data, ok := decodeDataURI(src); ok {
		return contentobj.SourceFromBytes(data)
	}
	return contentobj.SourceFromURL(contentobj.NewURL(w.resolve(src)))
}

// decodeDataURI decodes an RFC 2397 data URI. Textual payloads declaring
// a charset are transcoded to UTF-8. Base64 payloads that are unpadded or
// use the URL alphabet are accepted too.
func decodeDataURI(s string) ([]byte, bool) {
	if !strings.HasPrefix(strings.ToLower(s), "data:") {
		return nil, false
	}
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return decodeLenientBase64(s)
	}
	if du.Encoding == dataurl.EncodingASCII {
		if label := du.Params["charset"]; label != "" {
			if enc, _ := charset.Lookup(label); enc != nil {
				if data, err := enc.NewDecoder().Bytes(du.Data); err == nil {
					return data, true
				}
			}
		}
	}
	return du.Data, true
}

var lenientEncodings = []*base64.Encoding{
	base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
}

func decodeLenientBase64(s string) ([]byte, bool) {
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok || !strings.HasSuffix(strings.ToLower(header), ";base64") {
		return nil, false
	}
	payload = strings.Join(strings.Fields(payload), "")
	if unescaped, err := url.PathUnescape(payload); err == nil {
		payload = unescaped
	}
	for _, enc := range lenientEncodings {
		if data, err := enc.DecodeString(payload); err == nil {
			return data, true
		}
	}
	return nil, false
}

// dimensions returns width and height when both attributes are integers.
func dimensions(sel *goquery.Selection) *contentobj.Dimensions {
	width, err := strconv.Atoi(strings.TrimSpace(sel.AttrOr("width", "")))
	if err != nil {
		return nil
	}
	height, err := strconv.Atoi(strings.TrimSpace(sel.AttrOr("height", "")))
	if err != nil {
		return nil
	}
	return &contentobj.Dimensions{Width: width, Height: height}
}

func (w *walker) table(sel *goquery.Selection) []contentobj.Node {
	// Rows of nested tables belong to those tables.
	rows := sel.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(sel)
	})

	// The first thead row is the header. Further thead rows are neither
	// headers nor data and are kept in metadata.
	var headers []string
	var extra [][]string
	body := rows
	if thead := rows.FilterFunction(inHead); thead.Length() > 0 {
		headers = cells(thead.First(), "th, td")
		thead.Slice(1, thead.Length()).Each(func(_ int, tr *goquery.Selection) {
			extra = append(extra, cells(tr, "td, th"))
		})
		body = rows.FilterFunction(func(i int, tr *goquery.Selection) bool { return !inHead(i, tr) })
	} else if first := rows.First(); first.ChildrenFiltered("th").Length() > 0 {
		headers = cells(first, "th")
		body = rows.Slice(1, rows.Length())
	}

	t := contentobj.NewTable(headers, nil)
	body.Each(func(_ int, tr *goquery.Selection) {
		t.AddRow(cells(tr, "td, th")...)
	})
	if len(extra) > 0 {
		t.SetMeta("header_rows", extra)
	}
	t.Caption = collapse(sel.ChildrenFiltered("caption").First().Text())
	t.Position = position(sel)
	return []contentobj.Node{t}
}

// cells returns the collapsed text of the row's direct cells matching filter.
func cells(tr *goquery.Selection, filter string) []string {
	row := []string{}
	tr.ChildrenFiltered(filter).Each(func(_ int, cell *goquery.Selection) {
		row = append(row, collapse(cell.Text()))
	})
	return row
}

func inHead(_ int, tr *goquery.Selection) bool {
	return goquery.NodeName(tr.Parent()) == "thead"
}

func (w *walker) list(sel *goquery.Selection) []contentobj.Node {
	typ := contentobj.ListUnordered
	if goquery.NodeName(sel) == "ol" {
		typ = contentobj.ListOrdered
	}
	l := contentobj.NewList(typ)
	if start, err := strconv.Atoi(strings.TrimSpace(sel.AttrOr("start", ""))); err == nil {
		l.Start = start
	}
	sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		adopt(l, w.listItem(li))
	})
	l.Position = position(sel)
	return []contentobj.Node{l}
}

// listItem renders an <li>. Its content is the text outside nested lists;
// nested lists become children of the item.
func (w *walker) listItem(li *goquery.Selection) *contentobj.ListItem {
	var parts []string
	var nested []*goquery.Selection
	li.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "ul", "ol":
			nested = append(nested, c)
		default:
			if text := collapse(c.Text()); text != "" {
				parts = append(parts, text)
			}
		}
	})

	item := contentobj.NewListItem(strings.Join(parts, " "))
	for _, c := range nested {
		for _, n := range w.list(c) {
			adopt(item, n)
		}
	}
	item.Position = position(li)
	return item
}

func (w *walker) pre(sel *goquery.Selection) []contentobj.Node {
	content := strings.Trim(sel.Text(), "\n")
	if strings.TrimSpace(content) == "" {
		return nil
	}
	lang := language(sel.ChildrenFiltered("code").First())
	if lang == "" {
		lang = language(sel)
	}
	c := contentobj.NewCode(content, lang, false)
	c.Position = position(sel)
	return []contentobj.Node{c}
}

func (w *walker) code(sel *goquery.Selection) []contentobj.Node {
	content := collapse(sel.Text())
	if content == "" {
		return nil
	}
	c := contentobj.NewCode(content, language(sel), true)
	c.Position = position(sel)
	return []contentobj.Node{c}
}

// language reads a highlighter class such as language-go or lang-go.
func language(sel *goquery.Selection) string {
	for _, class := range strings.Fields(sel.AttrOr("class", "")) {
		for _, prefix := range []string{"language-", "lang-"} {
			if lang, ok := strings.CutPrefix(class, prefix); ok && lang != "" {
				return lang
			}
		}
	}
	return ""
}

func (w *walker) lineBreak(*goquery.Selection) []contentobj.Node {
	return []contentobj.Node{contentobj.NewText("\n")}
}

func (w *walker) rule(*goquery.Selection) []contentobj.Node {
	return []contentobj.Node{contentobj.NewText("\n" + strings.Repeat("─", ruleWidth) + "\n")}
}

// adopt attaches a freshly built child. Fresh nodes cannot form cycles.
func adopt(parent, child contentobj.Node) {
	_ = contentobj.AddChild(parent, child)
}
