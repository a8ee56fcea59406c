package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/nowaste/internal/engine"
)

// ParseTaskRow splits "title|deadline|priority". Missing trailing fields are
// left blank for validation to report.
func ParseTaskRow(row string) engine.TaskInput {
	parts := splitRow(row, 3)
	return engine.TaskInput{Title: parts[0], Deadline: parts[1], Priority: parts[2]}
}

// ParseRewardRow splits "name|score". A blank score means the default tier.
// A score that is not a number becomes -1 so the row keeps its position and
// fails validation in the batch.
func ParseRewardRow(row string) engine.RewardInput {
	parts := splitRow(row, 2)
	score, err := engine.ParseRewardScore(parts[1])
	if err != nil {
		score = engine.Required(-1)
	}
	return engine.RewardInput{Name: parts[0], RequiredScore: score}
}

func splitRow(row string, n int) []string {
	parts := strings.SplitN(row, "|", n)
	for len(parts) < n {
		parts = append(parts, "")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ReadRowsFile decodes a list of rows from a YAML or JSON file.
func ReadRowsFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var rows []T
	if err := Unmarshal(path, data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

// Unmarshal decodes JSON for .json files and YAML for everything else.
func Unmarshal(path string, data []byte, v any) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// ReportBatch prints what a batch added and which rows failed.
func ReportBatch[T any](ctx *Context, kind string, res engine.BatchResult[T], format func(T) string) {
	ctx.Printf("Added %d %s(s)\n", len(res.Added), kind)
	for _, item := range res.Added {
		ctx.Printf("  %s\n", format(item))
	}
	if len(res.Errors) > 0 {
		ctx.Printf("Skipped %d row(s):\n", len(res.Errors))
		for _, e := range res.Errors {
			ctx.Printf("  %v\n", e)
		}
	}
}
