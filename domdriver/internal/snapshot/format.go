// CLAUDE:SUMMARY Textual snapshot serialisation consumed by the LLM planner.
package snapshot

import (
	"fmt"
	"strings"
)

// Format renders a snapshot for the planner. The section ordering is a
// consumer contract: typable fields first, then content links, then the
// flat listing, so the planner finds the right element without scanning
// everything.
func Format(r *Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Snapshot %d: %s", r.ID, r.URL)
	if r.Title != "" {
		fmt.Fprintf(&sb, " (%q)", r.Title)
	}
	sb.WriteByte('\n')

	if r.Loading {
		sb.WriteString("Page still loading: no visible interactive elements yet. Wait and run snapshot again.\n")
		return sb.String()
	}

	var typable, content []Element
	for _, e := range r.Elements {
		switch {
		case Typable(e.Role):
			typable = append(typable, e)
		case ContentLink(&e):
			content = append(content, e)
		}
	}

	if len(typable) > 0 {
		sb.WriteString("\nTypable fields:\n")
		for _, e := range typable {
			sb.WriteString("  " + FormatElement(&e) + "\n")
		}
	}
	if len(content) > 0 {
		sb.WriteString("\nContent links:\n")
		for _, e := range content {
			sb.WriteString("  " + FormatElement(&e) + "\n")
		}
	}

	fmt.Fprintf(&sb, "\nAll elements (%d):\n", len(r.Elements))
	for _, e := range r.Elements {
		sb.WriteString("  " + FormatElement(&e) + "\n")
	}
	if r.Truncated > 0 {
		fmt.Fprintf(&sb, "(%d more elements not shown)\n", r.Truncated)
	}
	return sb.String()
}

// FormatElement renders one element line: [uid] <role> "name" key=value ...
func FormatElement(e *Element) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] <%s> %q", e.UID, e.Role, e.Name)

	if e.Value != "" {
		fmt.Fprintf(&sb, " value=%q", e.Value)
	}
	if e.Role == "checkbox" || e.Role == "radio" || e.Role == "switch" {
		fmt.Fprintf(&sb, " checked=%t", e.Checked)
	}
	if e.Disabled {
		sb.WriteString(" disabled=true")
	}
	if e.Href != "" {
		fmt.Fprintf(&sb, " href=%s", e.Href)
	}
	if len(e.Options) > 0 {
		fmt.Fprintf(&sb, " options=[%s]", strings.Join(e.Options, "; "))
	}
	return sb.String()
}
