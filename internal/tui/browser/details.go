package browser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/msto63/forsure/foundation/forsure/tree"
	"github.com/msto63/forsure/internal/tui"
)

// Details formats every field of item that carries a value, one labelled
// section per field
func Details(item *tree.ProjectItem, styles tui.Styles) string {
	if item == nil {
		return ""
	}

	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(styles.Label.Render(label + ":"))
		if strings.Contains(value, "\n") {
			b.WriteString("\n")
			b.WriteString(value)
		} else {
			b.WriteString(" ")
			b.WriteString(value)
		}
		b.WriteString("\n")
	}

	field("Type", item.Type.String())
	field("Name", item.Name)
	field("Path", item.Path)
	field("Full path", item.FullPath)
	if item.Line > 0 {
		field("Line", fmt.Sprintf("%d", item.Line))
	}
	field("Description", item.Description)
	field("Purpose", item.Purpose)
	field("Note", item.Note)
	field("Example", item.Example)
	field("Content pattern", item.ContentPattern)
	field("Command", item.Command)
	field("Content", item.Content)

	for i, block := range item.CodeBlocks {
		label := fmt.Sprintf("Code block %d", i+1)
		if block.Language != "" {
			label += " (" + block.Language + ")"
		}
		field(label, block.Code+"\n")
	}

	writeMap := func(label string, m map[string]string) {
		if len(m) == 0 {
			return
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %s = %s", k, m[k]))
		}
		field(label, strings.Join(lines, "\n"))
	}
	writeMap("Attributes", item.Attributes)
	writeMap("Annotations", item.Annotations)

	if n := len(item.Children); n > 0 {
		field("Children", fmt.Sprintf("%d", n))
	}

	return strings.TrimRight(b.String(), "\n")
}
