package input

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

func formatCatalogSection(hint *Hint) string {
	if hint == nil || len(hint.Catalog) == 0 {
		return ""
	}
	offered := make(map[string]bool, len(hint.Choices))
	for _, id := range hint.Choices {
		offered[id] = true
	}
	var buf strings.Builder
	buf.WriteString("# Catalog entries:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Entry", "Offered this turn")
	for _, id := range hint.Catalog {
		shown := "no"
		if offered[id] {
			shown = "yes"
		}
		_ = table.Append(id, shown)
	}
	_ = table.Render()
	return buf.String()
}

func formatVocabularySection(hint *Hint) string {
	if hint == nil || (len(hint.Actions) == 0 && len(hint.Targets) == 0) {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Recognized vocabulary:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Kind", "Words")
	if len(hint.Actions) > 0 {
		_ = table.Append("action", strings.Join(hint.Actions, ", "))
	}
	if len(hint.Targets) > 0 {
		_ = table.Append("target", strings.Join(hint.Targets, ", "))
	}
	_ = table.Render()
	return buf.String()
}

// FormatHint renders the recognizer context as markdown sections for a
// chat-model prompt.
func FormatHint(utterance string, hint *Hint) string {
	sections := []string{
		fmt.Sprintf("# User utterance:\n%s", utterance),
	}
	if hint != nil && hint.LastQuestion != "" {
		sections = append(sections, fmt.Sprintf("# Assistant question:\n%s", hint.LastQuestion))
	}
	if s := formatVocabularySection(hint); s != "" {
		sections = append(sections, s)
	}
	if s := formatCatalogSection(hint); s != "" {
		sections = append(sections, s)
	}
	return strings.Join(sections, "\n\n")
}
