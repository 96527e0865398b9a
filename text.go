package contentobj

// Text is a run of plain text.
type Text struct {
	BaseNode
	Content string
}

// NewText returns a Text node.
func NewText(content string) *Text {
	return &Text{Content: content}
}

func (t *Text) Kind() Kind          { return KindText }
func (t *Text) TextContent() string { return t.Content }

func (t *Text) RawData() map[string]any {
	return map[string]any{
		"content": t.Content,
		"length":  len([]rune(t.Content)),
	}
}

// Heading is an h1-h6 heading.
type Heading struct {
	BaseNode
	Content string

	// Level is in [1, 6].
	Level int

	// AnchorID is the heading element's id attribute, if any.
	AnchorID string
}

// NewHeading returns a Heading. The level is clamped to [1, 6].
func NewHeading(content string, level int) *Heading {
	return &Heading{Content: content, Level: min(max(level, 1), 6)}
}

func (h *Heading) Kind() Kind          { return KindHeading }
func (h *Heading) TextContent() string { return h.Content }

func (h *Heading) RawData() map[string]any {
	return map[string]any{
		"content":   h.Content,
		"level":     h.Level,
		"anchor_id": nullable(h.AnchorID),
	}
}

// nullable maps an empty string to nil so it serializes as null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
