package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameKeys     = "keys"
	CmdNameDict     = "dict"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Dict subcommand names
const (
	DictCmdList   = "list"
	DictCmdGet    = "get"
	DictCmdPut    = "put"
	DictCmdDelete = "delete"
)

// Flag names - long form
const (
	FlagTemplate    = "template"
	FlagPattern     = "pattern"
	FlagData        = "data"
	FlagDataFile    = "data-file"
	FlagDict        = "dict"
	FlagDriver      = "driver"
	FlagDSN         = "dsn"
	FlagOutput      = "output"
	FlagFormat      = "format"
	FlagVerbose     = "verbose"
	FlagName        = "name"
	FlagDescription = "description"
	FlagTag         = "tag"
	FlagPrefix      = "prefix"
	FlagLimit       = "limit"
	FlagOffset      = "offset"
	FlagCache       = "cache"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagPatternShort  = "p"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagDictShort     = "n"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
	FlagVerboseShort  = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
	FlagDefaultDriver = "filesystem"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand       = "unknown command"
	ErrMsgUnknownDictCommand   = "unknown dict command"
	ErrMsgMissingTemplate      = "template file (-t) or pattern (-p) required"
	ErrMsgTemplateAndPattern   = "template file (-t) and pattern (-p) are mutually exclusive"
	ErrMsgMissingName          = "dictionary name (--name) required"
	ErrMsgMissingDSN           = "storage DSN (--dsn) required"
	ErrMsgMissingEntries       = "dictionary entries (-f or -d) required"
	ErrMsgInvalidFlags         = "invalid flags"
	ErrMsgInvalidData          = "invalid data"
	ErrMsgReadFileFailed       = "failed to read file"
	ErrMsgWriteOutputFailed    = "failed to write output"
	ErrMsgFormatFailed         = "formatting failed"
	ErrMsgInvalidFormat        = "invalid output format"
	ErrMsgOpenStorageFailed    = "failed to open dictionary storage"
	ErrMsgLoadDictionaryFailed = "failed to load dictionaries"
	ErrMsgStorageFailed        = "storage operation failed"
)

// Help text templates
const (
	HelpMainUsage = `dynfmt - Python-style {key} formatting CLI

Usage:
    dynfmt <command> [options]

Commands:
    render      Format a pattern with a dictionary
    validate    Check the brace structure of a pattern
    keys        List the placeholder keys of a pattern
    dict        Manage stored dictionaries
    version     Show version information
    help        Show help for a command

Use "dynfmt help <command>" for more information about a command.`

	HelpRenderUsage = `Format a pattern with a dictionary

Usage:
    dynfmt render [options]

Options:
    -t, --template <file>   Pattern file (use "-" for stdin)
    -p, --pattern <text>    Pattern given inline
    -d, --data <json>       JSON object of key-value pairs
    -f, --data-file <file>  Dictionary file (.json, .yaml, .yml, .toml)
    -n, --dict <name>       Stored dictionary name (repeatable)
    --driver <name>         Storage driver for -n (default: filesystem)
    --dsn <dsn>             Storage connection string for -n
    --cache                 Cache stored dictionaries in memory
    -o, --output <file>     Output file (default: stdout)
    -v, --verbose           Log to stderr

Dictionaries are merged in order: stored dictionaries, then the data file,
then inline data. Later sources override earlier keys.

Examples:
    dynfmt render -p "Hello {name}" -d '{"name": "Alice"}'
    dynfmt render -t greeting.txt -f values.yaml
    dynfmt render -t greeting.txt -n defaults -n en --dsn ./dictionaries
    cat greeting.txt | dynfmt render -t - -d '{"name": "Bob"}'`

	HelpValidateUsage = `Check the brace structure of a pattern

Usage:
    dynfmt validate [options]

Options:
    -t, --template <file>   Pattern file (use "-" for stdin)
    -p, --pattern <text>    Pattern given inline
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    dynfmt validate -t greeting.txt
    dynfmt validate -p "{{literal}} {key}" -F json`

	HelpKeysUsage = `List the placeholder keys of a pattern

Usage:
    dynfmt keys [options]

Options:
    -t, --template <file>   Pattern file (use "-" for stdin)
    -p, --pattern <text>    Pattern given inline
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    dynfmt keys -t greeting.txt
    dynfmt keys -p "{a} {b} {a}" -F json`

	HelpDictUsage = `Manage stored dictionaries

Usage:
    dynfmt dict <list|get|put|delete> [options]

Common options:
    --driver <name>         Storage driver: memory, filesystem, sqlite, postgres (default: filesystem)
    --dsn <dsn>             Storage connection string (directory, database file or URL)
    -F, --format <format>   Output format: text, json (default: text)

list options:
    --prefix <prefix>       Only names starting with prefix
    --tag <tag>             Only dictionaries having tag (repeatable)
    --limit <n>             Maximum number of results
    --offset <n>            Number of results to skip

get / delete options:
    --name <name>           Dictionary name

put options:
    --name <name>           Dictionary name
    -f, --data-file <file>  Dictionary file (.json, .yaml, .yml, .toml)
    -d, --data <json>       JSON object of key-value pairs
    --description <text>    Description
    --tag <tag>             Tag (repeatable)

Examples:
    dynfmt dict put --dsn ./dictionaries --name en -f en.yaml --tag lang
    dynfmt dict list --dsn ./dictionaries --tag lang
    dynfmt dict get --driver sqlite --dsn dicts.db --name en -F json`

	HelpVersionUsage = `Show version information

Usage:
    dynfmt version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    dynfmt help [command]

Commands:
    render      Show help for render command
    validate    Show help for validate command
    keys        Show help for keys command
    dict        Show help for dict command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-dynfmt version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionsFileName    = "versions.yaml"
)

// Validation output format templates
const (
	ValidationTextSuccess = "Pattern is valid"
	ValidationTextFailure = "Pattern is invalid:"
	ValidationTextIssue   = "  [%s] %s at position %d"
)

// Dict output format templates
const (
	DictTextListEntry  = "%s\t%d entries\t%s"
	DictTextEntry      = "%s: %s"
	DictTextSaved      = "Saved dictionary %s (%s)"
	DictTextDeleted    = "Deleted dictionary %s"
	DictTextTagJoiner  = ","
	DictTextNoTagsMark = "-"
)

// CLI metadata
const (
	CLIName        = "dynfmt"
	CLIDescription = "Python-style {key} formatting CLI"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
