package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/mrz1836/quorum/internal/config"
	"github.com/mrz1836/quorum/internal/output"
	quorumerr "github.com/mrz1836/quorum/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage configuration",
	Long:    `View and modify quorum configuration settings stored in <home>/config.yaml.`,
	GroupID: groupConfig,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at <home>/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.`,
	Example: `  quorum config init
  quorum config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration: the file, environment overrides and
command-line flags combined.`,
	Example: `  quorum config show
  quorum config show -o json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree.`,
	Example: `  quorum config get shares.strict
  quorum config get output.default_format
  quorum config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree.
The configuration file will be updated immediately.`,
	Example: `  quorum config set shares.strict true
  quorum config set output.default_format json
  quorum config set security.scrypt_work_factor 20`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

// configKey reads and writes one dot-path setting.
type configKey struct {
	get func(*config.Config) string
	set func(*config.Config, string) error
}

// maxSuggestionDistance bounds how far a typo may be from a known key.
const maxSuggestionDistance = 4

var (
	errNotBool     = errors.New("expected true or false")
	errReadOnlyKey = errors.New("home is set with --home or QUORUM_HOME")
)

//nolint:gochecknoglobals // static key registry
var configKeys = map[string]configKey{
	"home": {
		get: func(c *config.Config) string { return c.Home },
		set: func(*config.Config, string) error { return errReadOnlyKey },
	},
	"shares.strict": {
		get: func(c *config.Config) string { return strconv.FormatBool(c.Shares.Strict) },
		set: boolSetter(func(c *config.Config, b bool) { c.Shares.Strict = b }),
	},
	"shares.fingerprints": {
		get: func(c *config.Config) string { return strconv.FormatBool(c.Shares.Fingerprints) },
		set: boolSetter(func(c *config.Config, b bool) { c.Shares.Fingerprints = b }),
	},
	"shares.sealed_dir": {
		get: func(c *config.Config) string { return c.Shares.SealedDir },
		set: func(c *config.Config, v string) error { c.Shares.SealedDir = v; return nil },
	},
	"security.memory_lock": {
		get: func(c *config.Config) string { return strconv.FormatBool(c.Security.MemoryLock) },
		set: boolSetter(func(c *config.Config, b bool) { c.Security.MemoryLock = b }),
	},
	"security.scrypt_work_factor": {
		get: func(c *config.Config) string { return strconv.Itoa(c.Security.ScryptWorkFactor) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			c.Security.ScryptWorkFactor = n
			return nil
		},
	},
	"output.default_format": {
		get: func(c *config.Config) string { return c.Output.DefaultFormat },
		set: func(c *config.Config, v string) error { c.Output.DefaultFormat = strings.ToLower(v); return nil },
	},
	"output.color": {
		get: func(c *config.Config) string { return c.Output.Color },
		set: func(c *config.Config, v string) error { c.Output.Color = strings.ToLower(v); return nil },
	},
	"output.verbose": {
		get: func(c *config.Config) string { return strconv.FormatBool(c.Output.Verbose) },
		set: boolSetter(func(c *config.Config, b bool) { c.Output.Verbose = b }),
	},
	"logging.level": {
		get: func(c *config.Config) string { return c.Logging.Level },
		set: func(c *config.Config, v string) error { c.Logging.Level = strings.ToLower(v); return nil },
	},
	"logging.format": {
		get: func(c *config.Config) string { return c.Logging.Format },
		set: func(c *config.Config, v string) error { c.Logging.Format = strings.ToLower(v); return nil },
	},
	"logging.file": {
		get: func(c *config.Config) string { return c.Logging.File },
		set: func(c *config.Config, v string) error { c.Logging.File = v; return nil },
	},
}

func boolSetter(apply func(*config.Config, bool)) func(*config.Config, string) error {
	return func(c *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errNotBool
		}
		apply(c, b)
		return nil
	}
}

// sortedConfigKeys returns every known key in order.
func sortedConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// lookupConfigKey finds path, or returns ErrUnknownConfigKey with the
// closest known key as a suggestion.
func lookupConfigKey(path string) (configKey, error) {
	key, ok := configKeys[strings.ToLower(path)]
	if ok {
		return key, nil
	}

	err := quorumerr.WithDetails(quorumerr.ErrUnknownConfigKey, map[string]string{"key": path})
	if best := suggestConfigKey(path); best != "" {
		return configKey{}, quorumerr.WithSuggestion(err, fmt.Sprintf("did you mean %q?", best))
	}
	return configKey{}, quorumerr.WithSuggestion(err, "run 'quorum config show' to list keys")
}

// suggestConfigKey returns the known key closest to path, or "".
func suggestConfigKey(path string) string {
	best, bestDist := "", maxSuggestionDistance+1
	for _, k := range sortedConfigKeys() {
		if d := levenshtein.ComputeDistance(strings.ToLower(path), k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)
	configPath := config.Path(cc.Config.GetHome())

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !configForce {
		return quorumerr.WithSuggestion(
			quorumerr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	defaults := config.Defaults()
	defaults.Home = cc.Config.GetHome()
	if err := config.Save(defaults, configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	cc.Logger.Debug("config initialized: path=%s", configPath)

	w := cmd.OutOrStdout()
	if wantsJSON(cc.Formatter) {
		return writeJSON(w, map[string]string{"path": configPath, "status": "created"})
	}
	output.Successf(w, "Configuration created at %s", configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cc := GetCmdContext(cmd)
	w := cmd.OutOrStdout()

	if wantsJSON(cc.Formatter) {
		values := make(map[string]string, len(configKeys))
		for name, key := range configKeys {
			values[name] = key.get(cc.Config)
		}
		return writeJSON(w, values)
	}

	table := output.NewTable("KEY", "VALUE")
	for _, name := range sortedConfigKeys() {
		table.AddRow(name, configKeys[name].get(cc.Config))
	}
	return table.Render(w)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)

	key, err := lookupConfigKey(args[0])
	if err != nil {
		return err
	}
	value := key.get(cc.Config)

	w := cmd.OutOrStdout()
	if wantsJSON(cc.Formatter) {
		return writeJSON(w, map[string]string{"key": strings.ToLower(args[0]), "value": value})
	}
	outln(w, value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cc := GetCmdContext(cmd)
	path, value := strings.ToLower(args[0]), args[1]

	key, err := lookupConfigKey(path)
	if err != nil {
		return err
	}

	// Edit the file as stored, not the environment-adjusted view.
	configPath := config.Path(cc.Config.GetHome())
	stored, err := config.LoadOrDefault(configPath)
	if err != nil {
		return quorumerr.FromCause(quorumerr.ErrConfigInvalid, err)
	}
	stored.Home = cc.Config.GetHome()

	if err := key.set(stored, value); err != nil {
		return quorumerr.WithSuggestion(
			quorumerr.WithDetails(quorumerr.FromCause(quorumerr.ErrInvalidValue, err), map[string]string{path: value}),
			"run 'quorum config get "+path+"' to see the current value",
		)
	}
	if err := stored.Validate(); err != nil {
		return quorumerr.WithDetails(quorumerr.FromCause(quorumerr.ErrInvalidValue, err), map[string]string{path: value})
	}

	if err := config.Save(stored, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cc.Logger.Debug("config updated: key=%s", path)

	w := cmd.OutOrStdout()
	if wantsJSON(cc.Formatter) {
		return writeJSON(w, map[string]string{"key": path, "value": key.get(stored)})
	}
	output.Successf(w, "Set %s = %s", path, key.get(stored))
	return nil
}
