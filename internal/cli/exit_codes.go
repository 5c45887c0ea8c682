package cli

import (
	goerrors "errors"
	"fmt"

	"github.com/raveheart1/shiplog/internal/changelog"
	"github.com/raveheart1/shiplog/internal/errors"
)

// Exit codes for the shiplog CLI. These codes let scripts and CI
// distinguish which pipeline stage failed.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitRuntime indicates an uncategorized failure.
	ExitRuntime = 1

	// ExitInvalidArguments indicates invalid command arguments.
	ExitInvalidArguments = 2

	// ExitSourceUnavailable indicates the commit source could not be
	// reached or denied access.
	ExitSourceUnavailable = 3

	// ExitEmptyHistory indicates the repository has zero commits.
	ExitEmptyHistory = 4

	// ExitGenerationFailed indicates the generation service failed or
	// violated the output contract.
	ExitGenerationFailed = 5

	// ExitPersistenceFailed indicates the entry store rejected the write.
	ExitPersistenceFailed = 6
)

// ExitError carries an explicit exit code through the error chain.
type ExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an error carrying the given exit code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if goerrors.As(err, &exitErr) {
		return exitErr.Code
	}

	var cliErr *errors.CLIError
	if goerrors.As(err, &cliErr) && cliErr.Category == errors.Argument {
		return ExitInvalidArguments
	}

	switch {
	case goerrors.Is(err, changelog.ErrSourceUnavailable):
		return ExitSourceUnavailable
	case goerrors.Is(err, changelog.ErrEmptyHistory):
		return ExitEmptyHistory
	case goerrors.Is(err, changelog.ErrGenerationFailed), goerrors.Is(err, changelog.ErrEmptyInput):
		return ExitGenerationFailed
	case goerrors.Is(err, changelog.ErrInvalidDraft), goerrors.Is(err, changelog.ErrPersistenceFailed):
		return ExitPersistenceFailed
	}
	return ExitRuntime
}

// categoryFor names the failing stage for error rendering.
func categoryFor(err error) errors.ErrorCategory {
	switch {
	case goerrors.Is(err, changelog.ErrSourceUnavailable), goerrors.Is(err, changelog.ErrEmptyHistory):
		return errors.Source
	case goerrors.Is(err, changelog.ErrGenerationFailed), goerrors.Is(err, changelog.ErrEmptyInput):
		return errors.Generation
	case goerrors.Is(err, changelog.ErrInvalidDraft), goerrors.Is(err, changelog.ErrPersistenceFailed):
		return errors.Persistence
	}
	return errors.Runtime
}

// remediationFor suggests next steps for well-known failures.
func remediationFor(err error) []string {
	switch {
	case goerrors.Is(err, changelog.ErrSourceUnavailable):
		return []string{
			"check the repository owner and name",
			"set GITHUB_TOKEN if the repository is private",
		}
	case goerrors.Is(err, changelog.ErrEmptyHistory):
		return []string{"the repository has no commits to summarize"}
	case goerrors.Is(err, changelog.ErrGenerationFailed):
		return []string{
			"verify OPENAI_API_KEY is valid",
			"retry; transient service errors are not retried automatically",
		}
	case goerrors.Is(err, changelog.ErrPersistenceFailed):
		return []string{"check that the database path is writable (see 'shiplog config show')"}
	}
	return nil
}
