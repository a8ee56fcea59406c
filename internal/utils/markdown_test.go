package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	if got := RenderMarkdown("   "); got != "" {
		t.Errorf("RenderMarkdown(blank) = %q, want empty", got)
	}
	got := RenderMarkdown("## Likely cause\n\nTasks are too large")
	if !strings.Contains(got, "large") {
		t.Errorf("rendered output lost the text: %q", got)
	}
}

func TestRenderMarkdownWidth(t *testing.T) {
	if got := RenderMarkdownWidth("", 40); got != "" {
		t.Errorf("RenderMarkdownWidth(empty) = %q, want empty", got)
	}
	got := RenderMarkdownWidth("1. Split them\n2. Rest", 40)
	if !strings.Contains(got, "Split") || !strings.Contains(got, "Rest") {
		t.Errorf("rendered output lost the list: %q", got)
	}
}
