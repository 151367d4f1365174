package cli

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, exhausted conflict retries, a failed
	// rebalance, or any error that doesn't fit the categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or invalid flag combinations.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Unknown column or issue IDs.
	ExitNotFound = 3

	// ExitValidation indicates a validation error.
	// Use for: A target index outside the column, an empty title or name.
	ExitValidation = 5
)
