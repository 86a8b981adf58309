package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-dynfmt"
)

// inspectConfig holds parsed validate / keys command configuration
type inspectConfig struct {
	source patternSource
	format string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid bool                   `json:"valid"`
	Issue *validationIssueOutput `json:"issue,omitempty"`
}

type validationIssueOutput struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Position    int    `json:"position"`
	Message     string `json:"message"`
}

// keysOutput represents JSON output for keys
type keysOutput struct {
	Keys []string `json:"keys"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseInspectFlags(CmdNameValidate, args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	pattern, err := cfg.source.read(stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	fe, _ := dynfmt.AsFormatError(dynfmt.Validate(pattern))

	if cfg.format == OutputFormatJSON {
		return outputValidationJSON(fe, stdout)
	}
	return outputValidationText(fe, stdout)
}

func runKeys(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseInspectFlags(CmdNameKeys, args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	pattern, err := cfg.source.read(stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	keys, err := dynfmt.Keys(pattern)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgFormatFailed, err)
		return ExitCodeValidationError
	}

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(keysOutput{Keys: keys}, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}
	for _, key := range keys {
		fmt.Fprintln(stdout, key)
	}
	return ExitCodeSuccess
}

func parseInspectFlags(name string, args []string) (*inspectConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &inspectConfig{}

	fs.StringVar(&cfg.source.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.source.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.source.pattern, FlagPattern, "", "")
	fs.StringVar(&cfg.source.pattern, FlagPatternShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.source.validate(); err != nil {
		return nil, err
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func outputValidationText(fe *dynfmt.FormatError, stdout io.Writer) int {
	if fe == nil {
		fmt.Fprintln(stdout, ValidationTextSuccess)
		return ExitCodeSuccess
	}

	fmt.Fprintln(stdout, ValidationTextFailure)
	fmt.Fprintf(stdout, ValidationTextIssue+FmtNewline, fe.Kind, fe.Description, fe.Position)
	return ExitCodeValidationError
}

func outputValidationJSON(fe *dynfmt.FormatError, stdout io.Writer) int {
	output := validationOutput{Valid: fe == nil}
	if fe != nil {
		output.Issue = &validationIssueOutput{
			Kind:        fe.Kind.String(),
			Description: fe.Description,
			Position:    fe.Position,
			Message:     fe.Error(),
		}
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}
