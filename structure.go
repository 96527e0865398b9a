package contentobj

import (
	"strconv"
	"strings"
)

// ListType is ordered or unordered.
type ListType string

// List types.
const (
	ListOrdered   ListType = "ordered"
	ListUnordered ListType = "unordered"
)

// List is an ordered or unordered list. Its children are ListItems.
type List struct {
	BaseNode
	ListType ListType

	// Start is the number of the first item of an ordered list.
	Start int
}

// NewList returns an empty List.
func NewList(t ListType) *List {
	return &List{ListType: t, Start: 1}
}

func (l *List) Kind() Kind { return KindList }

// Items returns the list's items.
func (l *List) Items() []*ListItem {
	var items []*ListItem
	for _, c := range l.children {
		if item, ok := c.(*ListItem); ok {
			items = append(items, item)
		}
	}
	return items
}

func (l *List) TextContent() string {
	var lines []string
	for i, item := range l.Items() {
		marker := "• "
		if l.ListType == ListOrdered {
			marker = strconv.Itoa(l.Start+i) + ". "
		}
		itemLines := strings.Split(item.TextContent(), "\n")
		lines = append(lines, marker+itemLines[0])
		for _, line := range itemLines[1:] {
			lines = append(lines, "   "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func (l *List) RawData() map[string]any {
	return map[string]any{
		"list_type":    string(l.ListType),
		"start_number": l.Start,
		"item_count":   len(l.Items()),
	}
}

// ListItem is one entry of a List. Nested lists are its children.
type ListItem struct {
	BaseNode
	Content string
}

// NewListItem returns a ListItem.
func NewListItem(content string) *ListItem {
	return &ListItem{Content: content}
}

func (li *ListItem) Kind() Kind { return KindListItem }

func (li *ListItem) TextContent() string {
	if len(li.children) == 0 {
		return li.Content
	}
	nested := childrenContent(&li.BaseNode)
	if li.Content == "" {
		return nested
	}
	return li.Content + "\n" + nested
}

func (li *ListItem) RawData() map[string]any {
	return map[string]any{
		"content":      li.Content,
		"nested_count": len(li.children),
	}
}

// Section is a generic titled container.
type Section struct {
	BaseNode
	Title     string
	Level     int
	SectionID string
}

// NewSection returns a Section.
func NewSection(title string, level int) *Section {
	return &Section{Title: title, Level: max(level, 1)}
}

func (s *Section) Kind() Kind { return KindSection }

func (s *Section) TextContent() string {
	body := childrenContent(&s.BaseNode)
	if s.Title == "" {
		return body
	}
	var header string
	switch s.Level {
	case 1:
		header = "=== " + strings.ToUpper(s.Title) + " ==="
	case 2:
		header = "--- " + s.Title + " ---"
	default:
		header = strings.Repeat("#", max(s.Level, 1)) + " " + s.Title
	}
	if body == "" {
		return header
	}
	return header + "\n" + body
}

func (s *Section) RawData() map[string]any {
	return map[string]any{
		"title":       nullable(s.Title),
		"level":       s.Level,
		"section_id":  nullable(s.SectionID),
		"child_count": len(s.children),
	}
}
