package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/nowaste/internal/diagnosis"
	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/lock"
	"github.com/julianstephens/nowaste/internal/migration"
	"github.com/julianstephens/nowaste/internal/storage"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("draw failed: %w", &engine.InsufficientScoreError{Tier: engine.TierNormal, Required: 20, Score: 4}),
			expected: "Error: draw failed: normal draw costs 20 points, current score is 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		args     []interface{}
		expected string
	}{
		{
			name:     "simple message",
			format:   "something went wrong",
			args:     nil,
			expected: "Error: something went wrong",
		},
		{
			name:     "formatted message with string",
			format:   "task %d not found",
			args:     []interface{}{12},
			expected: "Error: task 12 not found",
		},
		{
			name:     "formatted message with multiple args",
			format:   "connection to %s:%d failed",
			args:     []interface{}{"localhost", 5432},
			expected: "Error: connection to localhost:5432 failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Formatf(tt.format, tt.args...)
			if result != tt.expected {
				t.Errorf("Formatf(%q, %v) = %q, want %q", tt.format, tt.args, result, tt.expected)
			}
		})
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), ""},
		{"not initialized", fmt.Errorf("load: %w", storage.ErrNotInitialized), "nowaste init"},
		{"quota with retry", &diagnosis.QuotaExceededError{RetryAfter: 30 * time.Second}, "try again in 30s"},
		{"quota without retry", &diagnosis.QuotaExceededError{}, "try again later"},
		{"network", &diagnosis.NetworkError{Err: errors.New("refused")}, "--api-url"},
		{"no data", &diagnosis.NoDataError{}, "feeling"},
		{"capacity in batch row", &engine.RowError{Row: 3, Err: &engine.CapacityError{Limit: 20, Unclaimed: 20}}, "limit 20"},
		{"insufficient score", &engine.InsufficientScoreError{Tier: engine.TierLuxury, Required: 50, Score: 35}, "earn 15 more points"},
		{"no eligible reward", &engine.NoEligibleRewardError{Tier: engine.TierPremium}, "--score 100"},
		{"already completed", &engine.AlreadyCompletedError{TaskID: 4}, "read-only"},
		{"schema behind", fmt.Errorf("open: %w", &migration.VersionError{Dialect: "sqlite", Current: 1, Latest: 2}), "nowaste init"},
		{"schema newer", &migration.VersionError{Dialect: "sqlite", Current: 3, Latest: 2}, "upgrade"},
		{"lock held", fmt.Errorf("acquire: %w", &lock.HeldError{Path: "/tmp/nowaste.lock", PID: 42}), "other session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hint(tt.err)
			if tt.contains == "" {
				if got != "" {
					t.Errorf("Hint(%v) = %q, want empty", tt.err, got)
				}
				return
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Hint(%v) = %q, want to contain %q", tt.err, got, tt.contains)
			}
		})
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		// This is the subprocess - call Fatal
		Fatal(&engine.AlreadyCompletedError{TaskID: 7})
		return
	}

	// Run the test in a subprocess
	cmd := exec.Command(os.Args[0], "-test.run=TestFatal")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		// Check that exit code is 1
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		// Check that stderr contains the error message
		stderrStr := stderr.String()
		if !strings.Contains(stderrStr, "Error: task 7 is already completed") {
			t.Errorf("Fatal() stderr = %q, want to contain the error", stderrStr)
		}
		if !strings.Contains(stderrStr, "Hint: completed tasks are read-only") {
			t.Errorf("Fatal() stderr = %q, want to contain the hint", stderrStr)
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		// This is the subprocess - call Fatal with nil
		Fatal(nil)
		// If we get here, the function returned normally (which is correct)
		os.Exit(0)
	}

	// Run the test in a subprocess
	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	err := cmd.Run()
	if err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}

// TestFatalf tests the Fatalf function using exec helper process
func TestFatalf(t *testing.T) {
	if os.Getenv("GO_TEST_FATALF") == "1" {
		// This is the subprocess - call Fatalf
		Fatalf("connection to %s:%d failed", "localhost", 5432)
		return
	}

	// Run the test in a subprocess
	cmd := exec.Command(os.Args[0], "-test.run=TestFatalf")
	cmd.Env = append(os.Environ(), "GO_TEST_FATALF=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		// Check that exit code is 1
		if e.ExitCode() != 1 {
			t.Errorf("Fatalf() exit code = %d, want 1", e.ExitCode())
		}
		// Check that stderr contains the formatted error message
		stderrStr := stderr.String()
		if !strings.Contains(stderrStr, "Error: connection to localhost:5432 failed") {
			t.Errorf("Fatalf() stderr = %q, want to contain %q", stderrStr, "Error: connection to localhost:5432 failed")
		}
	} else {
		t.Errorf("Fatalf() did not exit with error: %v", err)
	}
}
