package formatter

import "strings"

var mermaidReplacer = strings.NewReplacer(
	`"`, "'",
	"(", "（",
	")", "）",
	"[", "【",
	"]", "】",
)

// RenderMermaid converts a bulleted outline into a Mermaid mindmap block.
// Two spaces of indentation make one level; non-bullet lines are skipped.
func RenderMermaid(outline string) string {
	lines := []string{"mindmap"}

	for _, line := range strings.Split(strings.TrimSpace(outline), "\n") {
		stripped := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(stripped, "-") {
			continue
		}
		text := strings.TrimSpace(strings.TrimLeft(stripped, "- "))
		if text == "" {
			continue
		}

		level := (len(line) - len(stripped)) / 2
		lines = append(lines, strings.Repeat("  ", level+1)+mermaidReplacer.Replace(text))
	}

	return strings.Join(lines, "\n")
}
