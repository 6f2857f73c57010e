package commands

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// VersionInfo contains version information for the CLI.
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:   version,
				Commit:    commit,
				Date:      date,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return OutputJSON(info)
			case OutputFormatYAML:
				return OutputYAML(info)
			default:
				cmd.Printf("tpc version %s\n", info.Version)
				cmd.Printf("  commit:     %s\n", info.Commit)
				cmd.Printf("  built:      %s\n", info.Date)
				cmd.Printf("  go version: %s\n", info.GoVersion)
				cmd.Printf("  platform:   %s\n", info.Platform)

				return nil
			}
		},
	}
}
