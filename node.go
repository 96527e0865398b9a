package contentobj

import (
	"strings"
)

// Kind discriminates the concrete type of a Node.
type Kind string

// Node kinds.
const (
	KindText        Kind = "text"
	KindHeading     Kind = "heading"
	KindURL         Kind = "url"
	KindLink        Kind = "link"
	KindImage       Kind = "image"
	KindVideo       Kind = "video"
	KindAudio       Kind = "audio"
	KindTable       Kind = "table"
	KindList        Kind = "list"
	KindListItem    Kind = "list_item"
	KindSection     Kind = "section"
	KindCode        Kind = "code"
	KindStyle       Kind = "style"
	KindScript      Kind = "script"
	KindPDFPage     Kind = "pdf_page"
	KindPDFMetadata Kind = "pdf_metadata"
	KindPDFSection  Kind = "pdf_section"
)

// Node is a typed unit of extracted content.
//
// Every concrete node embeds BaseNode, which supplies Base and the shared
// fields. Variants implement Kind, TextContent and RawData.
type Node interface {
	// Kind returns the node's discriminant. It never changes.
	Kind() Kind

	// Base returns the shared node fields.
	Base() *BaseNode

	// TextContent returns the semantic textual rendering of the node.
	// Containers concatenate their children.
	TextContent() string

	// RawData returns variant-specific fields for serialization.
	RawData() map[string]any
}

// Position records where a node came from in its source document.
// Zero values mean absent.
type Position struct {
	StartLine *int
	StartCol  *int
	EndLine   *int
	EndCol    *int

	// XPath is a best-effort structural path such as /html/body/div[2]/p.
	XPath string

	ElementID    string
	ElementClass string
}

// BaseNode holds the fields shared by every Node.
type BaseNode struct {
	// ID is an optional caller-assigned identifier.
	ID string

	// Position is nil when the source position is unknown.
	Position *Position

	metadata   map[string]any
	confidence *float64
	parent     Node
	children   []Node
}

// Base returns b. It lets every type embedding BaseNode satisfy Node.
func (b *BaseNode) Base() *BaseNode { return b }

// Metadata returns the node's metadata map. It may be nil.
func (b *BaseNode) Metadata() map[string]any { return b.metadata }

// SetMeta sets a metadata entry.
func (b *BaseNode) SetMeta(key string, value any) {
	if b.metadata == nil {
		b.metadata = make(map[string]any)
	}
	b.metadata[key] = value
}

// Meta returns a metadata entry.
func (b *BaseNode) Meta(key string) (any, bool) {
	v, ok := b.metadata[key]
	return v, ok
}

// Confidence returns the extraction confidence in [0, 1]. Defaults to 1.
func (b *BaseNode) Confidence() float64 {
	if b.confidence == nil {
		return 1
	}
	return *b.confidence
}

// SetConfidence sets the confidence, clamped to [0, 1].
func (b *BaseNode) SetConfidence(c float64) {
	c = min(max(c, 0), 1)
	b.confidence = &c
}

// Parent returns the node that owns b, or nil for a root.
// The parent is a back-reference only; it does not own b.
func (b *BaseNode) Parent() Node { return b.parent }

// Children returns the owned children in insertion order.
func (b *BaseNode) Children() []Node { return b.children }

// AddChild appends child to parent and points child back at parent.
// A child that already has a parent is detached from it first.
// Adding a node to itself or to one of its descendants fails with EINVALID.
func AddChild(parent, child Node) error {
	if parent == nil || child == nil {
		return Errorf(EINVALID, "nil node")
	}
	if parent == child {
		return Errorf(EINVALID, "node cannot be its own child")
	}
	for _, a := range Ancestors(parent) {
		if a == child {
			return Errorf(EINVALID, "adding %s would create a cycle", child.Kind())
		}
	}
	if old := child.Base().parent; old != nil {
		RemoveChild(old, child)
	}
	pb := parent.Base()
	pb.children = append(pb.children, child)
	child.Base().parent = parent
	return nil
}

// RemoveChild detaches child from parent. It reports whether child was found.
func RemoveChild(parent, child Node) bool {
	if parent == nil || child == nil {
		return false
	}
	pb := parent.Base()
	for i, c := range pb.children {
		if c == child {
			pb.children = append(pb.children[:i:i], pb.children[i+1:]...)
			child.Base().parent = nil
			return true
		}
	}
	return false
}

// Ancestors returns n's parent chain, nearest first.
func Ancestors(n Node) []Node {
	var out []Node
	for p := n.Base().parent; p != nil; p = p.Base().parent {
		out = append(out, p)
	}
	return out
}

// Descendants returns every node below n in pre-order. With kinds given,
// only nodes of those kinds are returned.
func Descendants(n Node, kinds ...Kind) []Node {
	var out []Node
	var walk func(Node)
	walk = func(node Node) {
		for _, c := range node.Base().children {
			if matchKind(c, kinds) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Filter returns the nodes of the given kinds, preserving order.
func Filter(nodes []Node, kinds ...Kind) []Node {
	var out []Node
	for _, n := range nodes {
		if matchKind(n, kinds) {
			out = append(out, n)
		}
	}
	return out
}

// PlainText joins the non-empty text content of nodes with newlines.
func PlainText(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := n.TextContent(); strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func matchKind(n Node, kinds []Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if n.Kind() == k {
			return true
		}
	}
	return false
}

// childrenContent renders a container: the children's content, newline-joined.
func childrenContent(b *BaseNode) string {
	parts := make([]string, 0, len(b.children))
	for _, c := range b.children {
		parts = append(parts, c.TextContent())
	}
	return strings.Join(parts, "\n")
}

// ToDict returns a shallow serializable view of n. Children are counted
// but not included.
func ToDict(n Node) map[string]any {
	b := n.Base()
	var id any
	if b.ID != "" {
		id = b.ID
	}
	metadata := make(map[string]any, len(b.metadata))
	for k, v := range b.metadata {
		metadata[k] = v
	}
	return map[string]any{
		"kind":           string(n.Kind()),
		"id":             id,
		"content":        n.TextContent(),
		"metadata":       metadata,
		"position":       positionDict(b.Position),
		"confidence":     b.Confidence(),
		"children_count": len(b.children),
	}
}

// ToDictTree is ToDict plus the node's raw data and its children, recursively.
func ToDictTree(n Node) map[string]any {
	d := ToDict(n)
	d["raw_data"] = n.RawData()
	children := make([]map[string]any, 0, len(n.Base().children))
	for _, c := range n.Base().children {
		children = append(children, ToDictTree(c))
	}
	d["children"] = children
	return d
}

func positionDict(p *Position) map[string]any {
	if p == nil {
		return nil
	}
	d := make(map[string]any)
	for k, v := range map[string]*int{
		"start_line": p.StartLine,
		"start_col":  p.StartCol,
		"end_line":   p.EndLine,
		"end_col":    p.EndCol,
	} {
		if v != nil {
			d[k] = *v
		}
	}
	if p.XPath != "" {
		d["xpath"] = p.XPath
	}
	if p.ElementID != "" {
		d["element_id"] = p.ElementID
	}
	if p.ElementClass != "" {
		d["element_class"] = p.ElementClass
	}
	return d
}
