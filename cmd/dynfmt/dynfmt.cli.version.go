package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// versionConfig holds parsed version command configuration
type versionConfig struct {
	format string
}

// versionInfo holds version information
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML represents the versions.yaml file structure
type versionsYAML struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

func runVersion(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseVersionFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	vInfo := getVersionInfo(versionsSearchPaths())

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(vInfo, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		vInfo.Version, vInfo.Commit, vInfo.Branch, vInfo.BuildTime, vInfo.GoVersion)
	return ExitCodeSuccess
}

func parseVersionFlags(args []string) (*versionConfig, error) {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &versionConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// versionsSearchPaths lists where versions.yaml is looked up: the working
// directory and its two parents.
func versionsSearchPaths() []string {
	return []string{
		VersionsFileName,
		filepath.Join("..", VersionsFileName),
		filepath.Join("..", "..", VersionsFileName),
	}
}

// getVersionInfo reads the first parseable versions file among paths.
func getVersionInfo(paths []string) *versionInfo {
	vInfo := &versionInfo{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var vy versionsYAML
		if err := yaml.Unmarshal(data, &vy); err != nil {
			continue
		}

		if vy.Project.Version != "" {
			vInfo.Version = vy.Project.Version
		}
		if vy.Git.Commit != "" {
			vInfo.Commit = vy.Git.Commit
		}
		if vy.Git.Branch != "" {
			vInfo.Branch = vy.Git.Branch
		}
		if vy.Build.Time != "" {
			vInfo.BuildTime = vy.Build.Time
		}
		if vy.Build.GoVersion != "" {
			vInfo.GoVersion = vy.Build.GoVersion
		}
		break
	}

	return vInfo
}
