package snapshot

import "strings"

// explicit ARIA roles accepted as-is
var knownAriaRoles = map[string]bool{
	"button": true, "link": true, "tab": true, "menuitem": true,
	"checkbox": true, "radio": true, "switch": true, "slider": true,
	"combobox": true, "textbox": true, "searchbox": true, "option": true,
}

// Classify derives the semantic role of an element: explicit ARIA role
// first, then tag/type heuristics.
func Classify(e *Element) string {
	if r := strings.ToLower(e.AriaRole); knownAriaRoles[r] {
		return r
	}

	switch e.Tag {
	case "a":
		return "link"
	case "button", "summary":
		return "button"
	case "select":
		return "combobox"
	case "textarea":
		return "textbox"
	case "input":
		switch strings.ToLower(e.Type) {
		case "checkbox":
			return "checkbox"
		case "radio":
			return "radio"
		case "range":
			return "slider"
		case "search":
			return "searchbox"
		case "button", "submit", "reset", "image":
			return "button"
		case "file":
			return "filepicker"
		default:
			return "textbox"
		}
	}
	if e.Editable {
		return "textbox"
	}
	return "generic"
}

// Typable reports whether the role accepts keyboard text input.
func Typable(role string) bool {
	switch role {
	case "textbox", "searchbox", "combobox":
		return true
	}
	return false
}

// contentHrefPatterns mark links that point at a content/detail page rather
// than chrome navigation. Snapshot prioritisation surfaces these after
// typable fields.
var contentHrefPatterns = []string{
	"/watch", "/video", "/article", "/product", "/detail", "/item", "/post",
}

// ContentLink reports whether an element is a link to a content/detail page.
func ContentLink(e *Element) bool {
	if e.Role != "link" || e.Href == "" {
		return false
	}
	lower := strings.ToLower(e.Href)
	for _, p := range contentHrefPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Prioritize caps the element list at maxElements, keeping typable fields
// first, content links second, everything else after, preserving document
// order within each class. Returns the kept elements and the dropped count.
func Prioritize(elements []Element, maxElements int) ([]Element, int) {
	if len(elements) <= maxElements {
		return elements, 0
	}

	var typable, content, rest []Element
	for _, e := range elements {
		switch {
		case Typable(e.Role):
			typable = append(typable, e)
		case ContentLink(&e):
			content = append(content, e)
		default:
			rest = append(rest, e)
		}
	}

	out := make([]Element, 0, maxElements)
	for _, group := range [][]Element{typable, content, rest} {
		for _, e := range group {
			if len(out) == maxElements {
				return out, len(elements) - maxElements
			}
			out = append(out, e)
		}
	}
	return out, len(elements) - len(out)
}
