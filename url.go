package contentobj

import (
	"context"
	"net/url"
	"path"
	"strings"
)

// TargetType classifies what a URL points at.
type TargetType string

// Target types.
const (
	TargetWebpage  TargetType = "webpage"
	TargetImage    TargetType = "image"
	TargetDocument TargetType = "document"
	TargetVideo    TargetType = "video"
	TargetAudio    TargetType = "audio"
)

var targetTypesByExt = map[string]TargetType{
	".jpg":  TargetImage,
	".jpeg": TargetImage,
	".png":  TargetImage,
	".gif":  TargetImage,
	".webp": TargetImage,
	".svg":  TargetImage,
	".pdf":  TargetDocument,
	".doc":  TargetDocument,
	".docx": TargetDocument,
	".mp4":  TargetVideo,
	".avi":  TargetVideo,
	".mov":  TargetVideo,
	".webm": TargetVideo,
	".mp3":  TargetAudio,
	".wav":  TargetAudio,
	".ogg":  TargetAudio,
}

// URL is a reference to a resource.
type URL struct {
	BaseNode
	URL        string
	Title      string
	TargetType TargetType

	// IsExternal is true when the URL has both a scheme and a host.
	IsExternal bool

	// IsAccessible is nil until Check has run.
	IsAccessible *bool
}

// NewURL returns a URL node with IsExternal and TargetType computed from raw.
func NewURL(raw string) *URL {
	u := &URL{URL: raw, TargetType: TargetWebpage}
	if raw == "" {
		return u
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return u
	}
	u.IsExternal = parsed.Scheme != "" && parsed.Host != ""
	if t, ok := targetTypesByExt[strings.ToLower(path.Ext(parsed.Path))]; ok {
		u.TargetType = t
	}
	return u
}

func (u *URL) Kind() Kind { return KindURL }

func (u *URL) TextContent() string {
	if u.Title != "" && u.Title != u.URL {
		return u.Title + " (" + u.URL + ")"
	}
	return u.URL
}

// Domain returns the host part of the URL, or "".
func (u *URL) Domain() string {
	parsed, err := url.Parse(u.URL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

// Filename returns the last path segment of the URL, or "".
func (u *URL) Filename() string {
	parsed, err := url.Parse(u.URL)
	if err != nil || parsed.Path == "" {
		return ""
	}
	name := path.Base(parsed.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}

// Check reports whether the URL is reachable through a driver from f.
// The answer is cached in IsAccessible.
func (u *URL) Check(ctx context.Context, f DriverFactory) bool {
	if u.IsAccessible != nil {
		return *u.IsAccessible
	}
	ok := f.URLDriver(u.URL).Available(ctx)
	u.IsAccessible = &ok
	return ok
}

func (u *URL) RawData() map[string]any {
	var accessible any
	if u.IsAccessible != nil {
		accessible = *u.IsAccessible
	}
	return map[string]any{
		"url":           u.URL,
		"title":         nullable(u.Title),
		"target_type":   string(u.TargetType),
		"is_external":   u.IsExternal,
		"is_accessible": accessible,
		"domain":        u.Domain(),
	}
}

// Link is a hyperlink. Exactly one of URL and AnchorID is set.
type Link struct {
	BaseNode
	Text string

	// URL is owned by the link; its parent points back at the link.
	URL *URL

	// AnchorID is the fragment of an in-document link, without the '#'.
	AnchorID string
}

// NewLink returns a link to u.
func NewLink(text string, u *URL) *Link {
	l := &Link{Text: text, URL: u}
	if u != nil {
		u.parent = l
	}
	return l
}

// NewAnchorLink returns an in-document link to the element with id anchor.
func NewAnchorLink(text, anchor string) *Link {
	return &Link{Text: text, AnchorID: anchor}
}

// IsAnchor reports whether l points inside the current document.
func (l *Link) IsAnchor() bool { return l.URL == nil }

func (l *Link) Kind() Kind          { return KindLink }
func (l *Link) TextContent() string { return l.Text }

func (l *Link) RawData() map[string]any {
	d := map[string]any{
		"text":      l.Text,
		"anchor_id": nullable(l.AnchorID),
		"is_anchor": l.IsAnchor(),
		"url":       nil,
	}
	if l.URL != nil {
		d["url"] = l.URL.URL
		d["is_external"] = l.URL.IsExternal
		d["target_type"] = string(l.URL.TargetType)
	}
	return d
}
