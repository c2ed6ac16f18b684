package common

import (
	"errors"
	"io/fs"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/seo-tagger/pkg/ingest"
	"github.com/dtnitsch/seo-tagger/pkg/tagger"
)

// Exit codes.
const (
	ExitInput = 1
	ExitInfra = 2
)

var (
	// ErrInvalidURL is returned for --url values that are not http(s) URLs.
	ErrInvalidURL = errors.New("invalid url")
	// ErrNoInput is returned when a command has nothing to process.
	ErrNoInput = errors.New("no input")
)

// IsInputError reports whether err was caused by what the user supplied
// rather than by the environment.
func IsInputError(err error) bool {
	var oe *tagger.OverrideError
	switch {
	case errors.Is(err, tagger.ErrEmptyDocument),
		errors.Is(err, tagger.ErrInvalidOverride),
		errors.As(err, &oe),
		errors.Is(err, ingest.ErrInvalidFrontMatter),
		errors.Is(err, ErrInvalidURL),
		errors.Is(err, ErrNoInput),
		errors.Is(err, fs.ErrNotExist):
		return true
	}
	return false
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if IsInputError(err) {
		return ExitInput
	}
	return ExitInfra
}

// Fail wraps err for urfave/cli so the process exits with ExitCode(err).
func Fail(err error) error {
	if err == nil {
		return nil
	}
	return cli.Exit(err.Error(), ExitCode(err))
}

// ErrorType labels err for manifests and logs.
func ErrorType(err error) string {
	if IsInputError(err) {
		return "input_error"
	}
	return "infrastructure_error"
}
