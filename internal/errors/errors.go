package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/nowaste/internal/diagnosis"
	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/lock"
	"github.com/julianstephens/nowaste/internal/logger"
	"github.com/julianstephens/nowaste/internal/migration"
	"github.com/julianstephens/nowaste/internal/storage"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a one-line suggestion for errors the user can act on, or ""
// when there is nothing useful to add.
func Hint(err error) string {
	if err == nil {
		return ""
	}

	var (
		quota    *diagnosis.QuotaExceededError
		network  *diagnosis.NetworkError
		noData   *diagnosis.NoDataError
		capacity *engine.CapacityError
		score    *engine.InsufficientScoreError
		empty    *engine.NoEligibleRewardError
		done     *engine.AlreadyCompletedError
		held     *lock.HeldError
		schema   *migration.VersionError
	)
	switch {
	case stderrors.Is(err, storage.ErrNotInitialized):
		return "run 'nowaste init' to create the database"
	case stderrors.As(err, &quota):
		if quota.RetryAfter > 0 {
			return fmt.Sprintf("try again in %s", quota.RetryAfter)
		}
		return "try again later"
	case stderrors.As(err, &network):
		return "check that the diagnosis service is running and --api-url is correct"
	case stderrors.As(err, &noData):
		return "complete a few tasks with a feeling first ('nowaste task done ID --feeling F')"
	case stderrors.As(err, &capacity):
		return fmt.Sprintf("draw some rewards before adding more (limit %d unclaimed)", capacity.Limit)
	case stderrors.As(err, &score):
		return fmt.Sprintf("earn %d more points by finishing tasks on time", score.Required-score.Score)
	case stderrors.As(err, &empty):
		return fmt.Sprintf("add a reward with 'nowaste reward add NAME --score %d'", empty.Tier.Cost())
	case stderrors.As(err, &done):
		return "completed tasks are read-only"
	case stderrors.As(err, &held):
		return "close the other session first, e.g. a running 'nowaste tui'"
	case stderrors.As(err, &schema):
		if schema.Newer() {
			return "this database was written by a newer nowaste; upgrade before using it"
		}
		return "run 'nowaste init' to apply pending migrations"
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		if hint := Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
