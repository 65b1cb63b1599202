package cli

import (
	"errors"

	"github.com/yaklabco/texpreview/internal/configloader"
	"github.com/yaklabco/texpreview/pkg/fsutil"
)

// Exit codes for texpreview.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates a generic failure, or blocks that failed to
	// render under --strict.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrBlockFailures is returned under --strict when any block rendered as
	// an error marker.
	ErrBlockFailures = errors.New("blocks failed to render")

	// ErrInvalidUsage marks flag combinations the command rejects.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var verr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &verr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitFailure
	}
}
