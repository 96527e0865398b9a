package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/contentobj"
	"golang.org/x/net/html"
)

// position records the element's structural path and id/class attributes.
func position(sel *goquery.Selection) *contentobj.Position {
	return &contentobj.Position{
		XPath:        xpath(sel.Get(0)),
		ElementID:    sel.AttrOr("id", ""),
		ElementClass: collapse(sel.AttrOr("class", "")),
	}
}

// xpath builds a path such as /html/body/div[2]/p from n up to the root.
// Same-tag siblings are indexed from 1 when the tag is not unique among
// them. Detached elements have no path.
func xpath(n *html.Node) (path string) {
	defer func() {
		if recover() != nil {
			path = ""
		}
	}()

	var parts []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if cur.Parent == nil {
			return ""
		}
		index, count := 0, 0
		for sib := cur.Parent.FirstChild; sib != nil; sib = sib.NextSibling {
			if sib.Type == html.ElementNode && sib.Data == cur.Data {
				count++
				if sib == cur {
					index = count
				}
			}
		}
		part := cur.Data
		if count > 1 {
			part += "[" + strconv.Itoa(index) + "]"
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString("/")
		sb.WriteString(parts[i])
	}
	return sb.String()
}
