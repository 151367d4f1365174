package cli

import (
	"errors"
	"fmt"
	"log"

	"github.com/thenoetrevino/kanrank/internal/database"
	columnservice "github.com/thenoetrevino/kanrank/internal/services/column"
	"github.com/thenoetrevino/kanrank/internal/services/placement"
)

// CommandError carries the process exit code for a failed command
type CommandError struct {
	Code int
	Err  error
}

func (e *CommandError) Error() string {
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code for err: ExitSuccess for nil, the carried
// code for a CommandError and ExitError for anything else
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code
	}
	return ExitError
}

// Classify maps a service error to its output code, exit code and an
// optional suggestion for the user
func Classify(err error) (code string, exitCode int, suggestion string) {
	switch {
	case errors.Is(err, placement.ErrInvalidPosition):
		return "INVALID_POSITION", ExitValidation, "Use an index between 0 and the number of other issues in the column"
	case errors.Is(err, placement.ErrColumnNotFound), errors.Is(err, columnservice.ErrColumnNotFound):
		return "COLUMN_NOT_FOUND", ExitNotFound, "Run 'kanrank column list' to see available columns"
	case errors.Is(err, placement.ErrIssueNotFound), errors.Is(err, database.ErrNotFound):
		return "ISSUE_NOT_FOUND", ExitNotFound, ""
	case errors.Is(err, placement.ErrRebalanceFailed):
		return "REBALANCE_FAILED", ExitError, ""
	case errors.Is(err, placement.ErrConcurrencyConflict):
		return "CONCURRENCY_CONFLICT", ExitError, "Another change to this column was in progress; retry the command"
	case errors.Is(err, placement.ErrEmptyTitle),
		errors.Is(err, placement.ErrTitleTooLong),
		errors.Is(err, columnservice.ErrEmptyName),
		errors.Is(err, columnservice.ErrNameTooLong),
		errors.Is(err, columnservice.ErrInvalidColumnID):
		return "VALIDATION_ERROR", ExitValidation, ""
	default:
		return "INTERNAL_ERROR", ExitError, ""
	}
}

// HandleError reports err through the formatter and returns it wrapped in a
// CommandError with the matching exit code
func HandleError(formatter *OutputFormatter, err error) error {
	code, exitCode, suggestion := Classify(err)
	if fmtErr := formatter.ErrorWithSuggestion(code, err.Error(), suggestion); fmtErr != nil {
		log.Printf("Error formatting error message: %v", fmtErr)
	}
	return &CommandError{Code: exitCode, Err: err}
}

// InitError reports a failure to set up the CLI itself
func InitError(formatter *OutputFormatter, err error) error {
	if fmtErr := formatter.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
		log.Printf("Error formatting error message: %v", fmtErr)
	}
	return &CommandError{Code: ExitError, Err: fmt.Errorf("initialize: %w", err)}
}
