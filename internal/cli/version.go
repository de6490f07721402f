package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/shamir"
)

// devVersionString is reported when no version was set at build time.
const devVersionString = "dev"

// BuildInfo carries values injected with -ldflags at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

//nolint:gochecknoglobals // set once from main before Execute
var buildInfo BuildInfo

// SetBuildInfo records the build metadata shown by 'quorum version'.
func SetBuildInfo(info BuildInfo) {
	buildInfo = info
	rootCmd.Version = formatVersion(info)
}

// GetCurrentVersion returns the current version of quorum.
func GetCurrentVersion() string {
	if buildInfo.Version == "" {
		return devVersionString
	}
	return buildInfo.Version
}

func formatVersion(info BuildInfo) string {
	v, commit, date := info.Version, info.Commit, info.Date
	if v == "" {
		v = devVersionString
	}
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, commit, date)
}

type versionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Modulus   uint64 `json:"modulus"`
}

// versionCmd prints build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Show version information",
	Long:    `Show the quorum version, commit, build date and the field modulus in use.`,
	Example: `  quorum version
  quorum version -o json`,
	GroupID: groupConfig,
	Args:    cobra.NoArgs,
	RunE:    runVersion,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)
	w := cmd.OutOrStdout()

	if wantsJSON(cc.Formatter) {
		return writeJSON(w, versionResponse{
			Version:   GetCurrentVersion(),
			Commit:    buildInfo.Commit,
			Date:      buildInfo.Date,
			GoVersion: runtime.Version(),
			Modulus:   shamir.Prime,
		})
	}

	out(w, "quorum %s\n", formatVersion(buildInfo))
	out(w, "go %s, modulus %d\n", runtime.Version(), shamir.Prime)
	return nil
}
