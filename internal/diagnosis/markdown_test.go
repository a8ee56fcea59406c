package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   Result
		want string
	}{
		{
			name: "current shape",
			in:   Diagnosis{Cause: "Tasks are too large", Solutions: []string{"Split them", " Start with five minutes "}},
			want: "## Likely cause\n\nTasks are too large\n\n## What to try\n\n1. Split them\n2. Start with five minutes\n",
		},
		{
			name: "legacy summary",
			in:   LegacyDiagnosis{Summary: "**Mostly fine.**\n"},
			want: "**Mostly fine.**\n",
		},
		{
			name: "structured legacy skips empty sections",
			in:   StructuredLegacyDiagnosis{Patterns: "Late on Mondays", Causes: "Fatigue", Suggestions: []string{"Rest"}},
			want: "## Patterns\n\nLate on Mondays\n\n## Causes\n\nFatigue\n\n## Suggestions\n\n1. Rest\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Markdown(tt.in))
		})
	}
}
