package errors

import (
	stderrors "errors"
	"os"

	"github.com/asdf-format/changelog-md/internal/changelog"
	"github.com/asdf-format/changelog-md/internal/config"
	"github.com/asdf-format/changelog-md/internal/convert"
	"github.com/asdf-format/changelog-md/internal/rst"
	"github.com/asdf-format/changelog-md/internal/source"
)

// Classify turns any error from the pipeline into a CLIError with a category
// and remediation. A CLIError is returned unchanged. The message is always
// the original error text.
func Classify(err error) *CLIError {
	if err == nil {
		return nil
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		readErr     *source.ReadError
		preambleErr *changelog.PreambleError
		rstErr      *rst.ParseError
		entryErr    *changelog.EntryNotFoundError
		convErr     *convert.ConversionError
		configErr   *config.ValidationError
		unknownKey  config.ErrUnknownKey
	)

	switch {
	case stderrors.As(err, &readErr):
		if stderrors.Is(err, os.ErrNotExist) {
			return Wrap(err, Input,
				"Check the path to the changelog",
				"Use '-' to read from standard input")
		}
		return Wrap(err, Input, "Check that the changelog location is readable")
	case stderrors.Is(err, changelog.ErrNoSection):
		return Wrap(err, Structure,
			"Add a section title underlined with a punctuation line, e.g. '1.0.0' over '====='")
	case stderrors.As(err, &preambleErr):
		return Wrap(err, Structure,
			"Remove the content before the first heading",
			"Or pass --allow-preamble to skip it")
	// A parse failure inside a conversion is a conversion failure.
	case stderrors.As(err, &convErr):
		if convErr.Engine == convert.EnginePandoc {
			return Wrap(err, Conversion,
				"Install pandoc or set 'pandoc' in the config to its path",
				"Or use --engine native")
		}
		return Wrap(err, Conversion, "Try another engine with --engine")
	case stderrors.As(err, &rstErr):
		return Wrap(err, Structure,
			"Use the same adornment style for every title of the same level",
			"Make overlines and underlines the same character and length")
	case stderrors.As(err, &entryErr):
		return Wrap(err, Argument, "Run with --list to see the available entries")
	case stderrors.As(err, &configErr), stderrors.As(err, &unknownKey):
		return Wrap(err, Configuration,
			"Run 'changelog-md config keys' to see valid keys and values",
			"Run 'changelog-md config show' to see the merged configuration")
	default:
		return Wrap(err, Runtime)
	}
}
