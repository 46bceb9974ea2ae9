package analysis

import (
	"strings"
)

// section is the state of the reply scanner
type section int

const (
	sectionNone section = iota
	sectionSummary
	sectionOutline
)

var (
	summaryLabels = []string{"摘要", "summary"}
	outlineLabels = []string{"思维导图", "mind map", "mindmap", "outline"}
)

// Sections is the parsed reply
type Sections struct {
	Summary    string
	Outline    string
	SawSummary bool
	SawOutline bool
}

// ParseSections scans the reply line by line.
//
//	None    --summary header--> Summary
//	None    --outline header--> Outline
//	Summary --outline header--> Outline
//	Outline --summary header--> Summary
//
// Lines before the first header are dropped. Every other line goes to the
// currently open section, so trailing text belongs to the last-opened one.
func ParseSections(reply string) Sections {
	var (
		state   = sectionNone
		out     Sections
		summary []string
		outline []string
	)

	for _, line := range strings.Split(normalizeNewlines(reply), "\n") {
		if next, ok := headerSection(line); ok {
			state = next
			if next == sectionSummary {
				out.SawSummary = true
			} else {
				out.SawOutline = true
			}
			continue
		}

		switch state {
		case sectionSummary:
			summary = append(summary, line)
		case sectionOutline:
			outline = append(outline, line)
		}
	}

	out.Summary = cleanSummary(summary)
	out.Outline = strings.Join(outline, "\n")
	return out
}

// headerSection recognizes "## label" and "##label"; deeper headings are content
func headerSection(line string) (section, bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "##") || strings.HasPrefix(t, "###") {
		return sectionNone, false
	}
	label := strings.ToLower(strings.TrimSpace(t[2:]))

	for _, l := range summaryLabels {
		if strings.HasPrefix(label, l) {
			return sectionSummary, true
		}
	}
	for _, l := range outlineLabels {
		if strings.HasPrefix(label, l) {
			return sectionOutline, true
		}
	}
	return sectionNone, false
}

func cleanSummary(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "```") {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// CleanOutline normalizes a model-written outline into a nested bullet list.
// Empty lines, code fences and markdown headings are dropped; any other line
// without a leading "-" gets one, keeping its indentation. Output that would be
// empty is replaced by placeholder. CleanOutline(CleanOutline(x)) == CleanOutline(x).
func CleanOutline(raw, placeholder string) string {
	var lines []string
	for _, line := range strings.Split(normalizeNewlines(raw), "\n") {
		line = strings.TrimRight(line, " \t")
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "```") || strings.HasPrefix(t, "#") {
			continue
		}
		if !strings.HasPrefix(t, "-") {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			line = indent + "- " + t
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return placeholder
	}
	return dedent(lines)
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizeNewlines turns CRLF and lone CR line breaks into LF
func normalizeNewlines(s string) string {
	return newlines.Replace(s)
}

// dedent removes the indentation shared by every line so the first level starts at column 0
func dedent(lines []string) string {
	common := -1
	for _, l := range lines {
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if common == -1 || n < common {
			common = n
		}
	}
	for i, l := range lines {
		lines[i] = l[common:]
	}
	return strings.Join(lines, "\n")
}
