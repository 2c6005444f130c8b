package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

const unknownVersion = "unknown"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the traitmut version",
		Long:  "Prints the traitmut module version, the VCS revision it was built from and the Go toolchain used.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info, _ := debug.ReadBuildInfo()
			for _, line := range versionLines(info) {
				cmd.Println(line)
			}
		},
	}
}

// versionLines formats the build metadata; info may be nil.
func versionLines(info *debug.BuildInfo) []string {
	if info == nil {
		return []string{"traitmut " + unknownVersion}
	}

	version := info.Main.Version
	if version == "" || version == "(devel)" {
		version = unknownVersion
	}

	lines := []string{"traitmut " + version}

	var revision, modified string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		}
	}

	if revision != "" {
		if modified == "true" {
			revision += "-dirty"
		}

		lines = append(lines, "revision "+revision)
	}

	if info.GoVersion != "" {
		lines = append(lines, "built with "+info.GoVersion)
	}

	return lines
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
