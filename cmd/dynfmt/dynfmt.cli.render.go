package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-dynfmt"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	source       patternSource
	dataJSON     string
	dataFilePath string
	dictNames    stringSlice
	driver       string
	dsn          string
	cache        bool
	outputPath   string
	verbose      bool
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	pattern, err := cfg.source.read(stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	logger := newLogger(cfg.verbose, stderr)
	defer logger.Sync()

	opts := []dynfmt.Option{dynfmt.WithLogger(logger)}
	if len(cfg.dictNames) > 0 {
		storage, err := dynfmt.OpenStorage(cfg.driver, cfg.dsn)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgOpenStorageFailed, err)
			return ExitCodeError
		}
		if cfg.cache {
			storage = dynfmt.NewCachedStorage(storage, dynfmt.DefaultCacheConfig())
		}
		defer storage.Close()
		opts = append(opts, dynfmt.WithStorage(storage))
	}

	formatter := dynfmt.MustNew(opts...)
	ctx := context.Background()

	dictionary, code := buildDictionary(ctx, formatter, cfg, stderr)
	if code != ExitCodeSuccess {
		return code
	}

	result, err := formatter.Format(ctx, pattern, dictionary)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgFormatFailed, err)
		if dynfmt.IsTokenError(err) {
			return ExitCodeValidationError
		}
		return ExitCodeError
	}

	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}

	fs.StringVar(&cfg.source.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.source.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.source.pattern, FlagPattern, "", "")
	fs.StringVar(&cfg.source.pattern, FlagPatternShort, "", "")
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.Var(&cfg.dictNames, FlagDict, "")
	fs.Var(&cfg.dictNames, FlagDictShort, "")
	fs.StringVar(&cfg.driver, FlagDriver, FlagDefaultDriver, "")
	fs.StringVar(&cfg.dsn, FlagDSN, "", "")
	fs.BoolVar(&cfg.cache, FlagCache, false, "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.source.validate(); err != nil {
		return nil, err
	}
	if len(cfg.dictNames) > 0 && cfg.dsn == "" && cfg.driver != dynfmt.StorageDriverNameMemory {
		return nil, errors.New(ErrMsgMissingDSN)
	}

	return cfg, nil
}

// buildDictionary merges stored dictionaries, the data file and inline data, in that order.
func buildDictionary(ctx context.Context, formatter *dynfmt.Formatter, cfg *renderConfig, stderr io.Writer) (map[string]string, int) {
	dictionary := make(map[string]string)

	if len(cfg.dictNames) > 0 {
		stored, err := formatter.LoadDictionaries(ctx, cfg.dictNames...)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadDictionaryFailed, err)
			return nil, ExitCodeError
		}
		mergeInto(dictionary, stored)
	}

	if cfg.dataFilePath != "" {
		fromFile, err := dynfmt.LoadDictionaryFile(cfg.dataFilePath)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
			return nil, ExitCodeInputError
		}
		mergeInto(dictionary, fromFile)
	}

	if cfg.dataJSON != "" {
		inline, err := dynfmt.ParseDictionary([]byte(cfg.dataJSON), dynfmt.DictionaryFormatJSON)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
			return nil, ExitCodeInputError
		}
		mergeInto(dictionary, inline)
	}

	return dictionary, ExitCodeSuccess
}

func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}
