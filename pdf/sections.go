package pdf

import (
	"strings"
	"unicode"

	"github.com/fwojciec/contentobj"
)

// headingPrefixes start lines that are treated as headings.
var headingPrefixes = []string{"chapter ", "section ", "part ", "article ", "appendix "}

// Sections splits page text into sections at lines that look like
// headings. A section runs until the next heading, across page boundaries.
// Text before the first heading forms an untitled section.
func Sections(pages []*contentobj.PDFPage) []*contentobj.PDFSection {
	var sections []*contentobj.PDFSection
	var current *contentobj.PDFSection
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Content != "" || current.SectionTitle != "" {
			sections = append(sections, current)
		}
		current, body = nil, nil
	}

	for _, page := range pages {
		for _, line := range strings.Split(page.Content, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if isLikelyHeading(line) {
				flush()
				current = &contentobj.PDFSection{
					SectionTitle: line,
					Level:        headingLevel(line),
					PageStart:    page.PageNumber,
					PageEnd:      page.PageNumber,
				}
				continue
			}
			if current == nil {
				current = &contentobj.PDFSection{PageStart: page.PageNumber, PageEnd: page.PageNumber}
			}
			current.PageEnd = page.PageNumber
			body = append(body, line)
		}
	}
	flush()
	return sections
}

// isLikelyHeading reports whether a line is a heading: an upper-case line,
// a numbered line such as "2.1 Scope", or a line starting with a heading
// word such as "Chapter".
func isLikelyHeading(line string) bool {
	if len(line) > 100 {
		return false
	}
	if len(line) > 2 && hasLetter(line) && line == strings.ToUpper(line) {
		return true
	}
	if number, rest, ok := strings.Cut(line, " "); ok && isSectionNumber(number) && hasLetter(rest) && !strings.HasSuffix(rest, ".") {
		return true
	}
	lower := strings.ToLower(line)
	for _, prefix := range headingPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// headingLevel is the depth of a section number ("1" and "1." are level 1,
// "1.2" is level 2), level 1 for upper-case headings, level 2 otherwise.
func headingLevel(line string) int {
	if number, _, ok := strings.Cut(line, " "); ok && isSectionNumber(number) {
		return len(strings.FieldsFunc(number, func(r rune) bool { return r == '.' }))
	}
	if line == strings.ToUpper(line) {
		return 1
	}
	return 2
}

// isSectionNumber matches dotted numbers such as 1, 1. and 3.9.1.
func isSectionNumber(s string) bool {
	if s == "" || len(s) > 10 || s[0] < '0' || s[0] > '9' {
		return false
	}
	for _, part := range strings.Split(strings.TrimSuffix(s, "."), ".") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
