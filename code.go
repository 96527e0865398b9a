package contentobj

import "strings"

// Code is a code fragment, either inline or a block.
type Code struct {
	BaseNode
	Content    string
	Language   string
	IsInline   bool
	SourceFile string
}

// NewCode returns a Code node.
func NewCode(content, language string, inline bool) *Code {
	return &Code{Content: content, Language: language, IsInline: inline}
}

func (c *Code) Kind() Kind { return KindCode }

func (c *Code) TextContent() string {
	if c.IsInline {
		return "`" + c.Content + "`"
	}
	header := "[CODE]"
	if c.Language != "" {
		header = "[CODE (" + c.Language + ")]"
	}
	return header + "\n" + c.Content + "\n[/CODE]"
}

// LineCount returns the number of lines in the code.
func (c *Code) LineCount() int {
	if c.Content == "" {
		return 0
	}
	return strings.Count(c.Content, "\n") + 1
}

func (c *Code) RawData() map[string]any {
	return map[string]any{
		"content":     c.Content,
		"language":    nullable(c.Language),
		"is_inline":   c.IsInline,
		"source_file": nullable(c.SourceFile),
		"line_count":  c.LineCount(),
	}
}

const inlineStylePreview = 50

// Style is CSS from a <style> element, a style attribute or an external
// stylesheet.
type Style struct {
	BaseNode
	Content  string
	IsInline bool
	Media    string

	// SrcURL is set for external stylesheets, which carry no content.
	SrcURL string
}

// NewStyle returns a Style node.
func NewStyle(content string, inline bool) *Style {
	return &Style{Content: content, IsInline: inline}
}

func (s *Style) Kind() Kind { return KindStyle }

func (s *Style) TextContent() string {
	if s.SrcURL != "" && s.Content == "" {
		return "[CSS: " + s.SrcURL + "]"
	}
	if s.IsInline {
		preview := []rune(s.Content)
		if len(preview) > inlineStylePreview {
			return "[INLINE-STYLE: " + string(preview[:inlineStylePreview]) + "...]"
		}
		return "[INLINE-STYLE: " + s.Content + "]"
	}
	header := "[CSS]"
	if s.Media != "" {
		header = "[CSS (" + s.Media + ")]"
	}
	return header + "\n" + s.Content + "\n[/CSS]"
}

func (s *Style) RawData() map[string]any {
	return map[string]any{
		"content":   s.Content,
		"is_inline": s.IsInline,
		"media":     nullable(s.Media),
		"src_url":   nullable(s.SrcURL),
	}
}

// Script types after normalization.
const (
	ScriptJavaScript = "javascript"
	ScriptJSON       = "json"
	ScriptModule     = "module"
)

// Script is a <script> element, inline or external.
type Script struct {
	Code
	ScriptType string
	IsExternal bool
	SrcURL     string
	Defer      bool
	Async      bool
}

// NewScript returns an inline script of the given raw MIME type.
func NewScript(content, mimeType string) *Script {
	s := &Script{ScriptType: NormalizeScriptType(mimeType)}
	s.Content = content
	s.Language = s.ScriptType
	return s
}

// NewExternalScript returns a script loaded from src.
func NewExternalScript(src, mimeType string) *Script {
	s := NewScript("", mimeType)
	s.IsExternal = true
	s.SrcURL = src
	return s
}

// NormalizeScriptType maps a script MIME type onto javascript, json or module.
// Unrecognized types are returned lower-cased; an empty type is javascript.
func NormalizeScriptType(mimeType string) string {
	t := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case t == "":
		return ScriptJavaScript
	case strings.Contains(t, "json"):
		return ScriptJSON
	case strings.Contains(t, "javascript"), strings.Contains(t, "ecmascript"):
		return ScriptJavaScript
	case strings.Contains(t, "module"):
		return ScriptModule
	}
	return t
}

func (s *Script) Kind() Kind { return KindScript }

func (s *Script) TextContent() string {
	if s.IsExternal {
		return "[SCRIPT: " + s.SrcURL + "]"
	}
	return s.Code.TextContent()
}

func (s *Script) RawData() map[string]any {
	d := s.Code.RawData()
	d["script_type"] = s.ScriptType
	d["is_external"] = s.IsExternal
	d["src_url"] = nullable(s.SrcURL)
	d["defer"] = s.Defer
	d["async_load"] = s.Async
	return d
}
