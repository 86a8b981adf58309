package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/itsatony/go-dynfmt"
)

// dictConfig holds parsed dict command configuration
type dictConfig struct {
	driver       string
	dsn          string
	format       string
	name         string
	dataFilePath string
	dataJSON     string
	description  string
	tags         stringSlice
	prefix       string
	limit        int
	offset       int
}

// dictSummaryOutput represents one dictionary in JSON list output
type dictSummaryOutput struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Entries     int      `json:"entries"`
}

func runDict(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, HelpDictUsage)
		return ExitCodeUsageError
	}

	sub := args[0]
	switch sub {
	case DictCmdList, DictCmdGet, DictCmdPut, DictCmdDelete:
	default:
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgUnknownDictCommand, sub)
		fmt.Fprintln(stdout, HelpDictUsage)
		return ExitCodeUsageError
	}

	cfg, err := parseDictFlags(sub, args[1:])
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	// entries are parsed before the storage is opened
	var entries map[string]string
	if sub == DictCmdPut {
		var code int
		entries, code = readDictEntries(cfg, stderr)
		if code != ExitCodeSuccess {
			return code
		}
	}

	storage, err := dynfmt.OpenStorage(cfg.driver, cfg.dsn)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgOpenStorageFailed, err)
		return ExitCodeError
	}
	defer storage.Close()

	ctx := context.Background()
	switch sub {
	case DictCmdList:
		return runDictList(ctx, storage, cfg, stdout, stderr)
	case DictCmdGet:
		return runDictGet(ctx, storage, cfg, stdout, stderr)
	case DictCmdPut:
		return runDictPut(ctx, storage, cfg, entries, stdout, stderr)
	default:
		return runDictDelete(ctx, storage, cfg, stdout, stderr)
	}
}

func parseDictFlags(sub string, args []string) (*dictConfig, error) {
	fs := flag.NewFlagSet(CmdNameDict+" "+sub, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &dictConfig{}

	fs.StringVar(&cfg.driver, FlagDriver, FlagDefaultDriver, "")
	fs.StringVar(&cfg.dsn, FlagDSN, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	switch sub {
	case DictCmdList:
		fs.StringVar(&cfg.prefix, FlagPrefix, "", "")
		fs.Var(&cfg.tags, FlagTag, "")
		fs.IntVar(&cfg.limit, FlagLimit, 0, "")
		fs.IntVar(&cfg.offset, FlagOffset, 0, "")
	case DictCmdPut:
		fs.StringVar(&cfg.name, FlagName, "", "")
		fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
		fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
		fs.StringVar(&cfg.dataJSON, FlagData, "", "")
		fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
		fs.StringVar(&cfg.description, FlagDescription, "", "")
		fs.Var(&cfg.tags, FlagTag, "")
	default:
		fs.StringVar(&cfg.name, FlagName, "", "")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.dsn == "" && cfg.driver != dynfmt.StorageDriverNameMemory {
		return nil, errors.New(ErrMsgMissingDSN)
	}
	if sub != DictCmdList && cfg.name == "" {
		return nil, errors.New(ErrMsgMissingName)
	}
	if sub == DictCmdPut && cfg.dataFilePath == "" && cfg.dataJSON == "" {
		return nil, errors.New(ErrMsgMissingEntries)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// readDictEntries merges the data file and inline data of a put command.
func readDictEntries(cfg *dictConfig, stderr io.Writer) (map[string]string, int) {
	entries := make(map[string]string)

	if cfg.dataFilePath != "" {
		fromFile, err := dynfmt.LoadDictionaryFile(cfg.dataFilePath)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
			return nil, ExitCodeInputError
		}
		mergeInto(entries, fromFile)
	}

	if cfg.dataJSON != "" {
		inline, err := dynfmt.ParseDictionary([]byte(cfg.dataJSON), dynfmt.DictionaryFormatJSON)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
			return nil, ExitCodeInputError
		}
		mergeInto(entries, inline)
	}

	return entries, ExitCodeSuccess
}

func runDictList(ctx context.Context, storage dynfmt.DictionaryStorage, cfg *dictConfig, stdout, stderr io.Writer) int {
	dicts, err := storage.List(ctx, &dynfmt.DictionaryQuery{
		NamePrefix: cfg.prefix,
		Tags:       cfg.tags,
		Limit:      cfg.limit,
		Offset:     cfg.offset,
	})
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageFailed, err)
		return ExitCodeError
	}

	if cfg.format == OutputFormatJSON {
		output := make([]dictSummaryOutput, 0, len(dicts))
		for _, d := range dicts {
			output = append(output, dictSummaryOutput{
				Name:        d.Name,
				ID:          d.ID,
				Description: d.Description,
				Tags:        d.Tags,
				Entries:     len(d.Entries),
			})
		}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	for _, d := range dicts {
		tags := DictTextNoTagsMark
		if len(d.Tags) > 0 {
			tags = strings.Join(d.Tags, DictTextTagJoiner)
		}
		fmt.Fprintf(stdout, DictTextListEntry+FmtNewline, d.Name, len(d.Entries), tags)
	}
	return ExitCodeSuccess
}

func runDictGet(ctx context.Context, storage dynfmt.DictionaryStorage, cfg *dictConfig, stdout, stderr io.Writer) int {
	dict, err := storage.Get(ctx, cfg.name)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageFailed, err)
		return ExitCodeError
	}

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(dict, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	keys := make([]string, 0, len(dict.Entries))
	for k := range dict.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(stdout, DictTextEntry+FmtNewline, k, dict.Entries[k])
	}
	return ExitCodeSuccess
}

func runDictPut(ctx context.Context, storage dynfmt.DictionaryStorage, cfg *dictConfig, entries map[string]string, stdout, stderr io.Writer) int {
	dict := &dynfmt.StoredDictionary{
		Name:        cfg.name,
		Entries:     entries,
		Description: cfg.description,
		Tags:        cfg.tags,
	}
	if err := storage.Save(ctx, dict); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageFailed, err)
		return ExitCodeError
	}

	fmt.Fprintf(stdout, DictTextSaved+FmtNewline, dict.Name, dict.ID)
	return ExitCodeSuccess
}

func runDictDelete(ctx context.Context, storage dynfmt.DictionaryStorage, cfg *dictConfig, stdout, stderr io.Writer) int {
	if err := storage.Delete(ctx, cfg.name); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageFailed, err)
		return ExitCodeError
	}

	fmt.Fprintf(stdout, DictTextDeleted+FmtNewline, cfg.name)
	return ExitCodeSuccess
}
