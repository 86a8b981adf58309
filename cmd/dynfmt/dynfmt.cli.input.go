package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// patternSource is the shared -t / -p pair of the pattern commands.
type patternSource struct {
	templatePath string
	pattern      string
}

func (p patternSource) validate() error {
	switch {
	case p.templatePath == "" && p.pattern == "":
		return errors.New(ErrMsgMissingTemplate)
	case p.templatePath != "" && p.pattern != "":
		return errors.New(ErrMsgTemplateAndPattern)
	}
	return nil
}

// read returns the inline pattern or the contents of the template file.
func (p patternSource) read(stdin io.Reader) (string, error) {
	if p.pattern != "" {
		return p.pattern, nil
	}
	data, err := readInput(p.templatePath, stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// stringSlice is a repeatable string flag.
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// newLogger returns a console logger writing to stderr when verbose is set,
// and a no-op logger otherwise.
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core).Named(CLIName)
}
