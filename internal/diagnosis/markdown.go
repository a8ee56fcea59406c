package diagnosis

import (
	"fmt"
	"strings"
)

// Markdown renders any result shape as markdown for display.
func Markdown(r Result) string {
	var b strings.Builder
	switch d := r.(type) {
	case Diagnosis:
		b.WriteString("## Likely cause\n\n")
		b.WriteString(strings.TrimSpace(d.Cause))
		b.WriteString("\n\n## What to try\n\n")
		writeList(&b, d.Solutions)
	case LegacyDiagnosis:
		b.WriteString(strings.TrimSpace(d.Summary))
		b.WriteString("\n")
	case StructuredLegacyDiagnosis:
		for _, s := range []struct{ title, body string }{
			{"Patterns", d.Patterns},
			{"Triggers", d.Triggers},
			{"Causes", d.Causes},
		} {
			if strings.TrimSpace(s.body) == "" {
				continue
			}
			fmt.Fprintf(&b, "## %s\n\n%s\n\n", s.title, strings.TrimSpace(s.body))
		}
		if len(d.Suggestions) > 0 {
			b.WriteString("## Suggestions\n\n")
			writeList(&b, d.Suggestions)
		}
	}
	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, strings.TrimSpace(item))
	}
}
