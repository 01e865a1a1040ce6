package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// configKey describes a setting and parses values given on the command line.
type configKey struct {
	usage string
	parse func(string) (any, error)
}

var configKeys = map[string]configKey{
	"log.level":     {"Log level: debug, info, warn, error", parseLevel},
	"db":            {"DuckDB store read when no files are given", parseString},
	"strict":        {"Fail on malformed annotation lines", parseBool},
	"stats.window":  {"Window size used by stats", parsePositive},
	"stats.workers": {"Workers used by stats, 0 for one per CPU", parseNonNegative},
	"serve.addr":    {"Address serve listens on", parseString},
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage seqfeat configuration",
		Long: `Show, get, or set configuration values. Config is stored in ~/.seqfeat.yaml;
SEQFEAT_* environment variables (e.g. SEQFEAT_STATS_WINDOW) and flags take
precedence over it.`,
		Example: `  seqfeat config                          # show effective settings
  seqfeat config keys                     # list known keys
  seqfeat config set stats.window 50000   # default window for stats
  seqfeat config get db                   # get a value`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigKeysCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value in the config file",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get the effective value of a setting",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := lookupConfigKey(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), viper.Get(args[0]))
			return nil
		},
	}
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List configuration keys",
		Args:  noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, key := range slices.Sorted(maps.Keys(configKeys)) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", key, configKeys[key].usage)
			}
		},
	}
}

func lookupConfigKey(key string) (configKey, error) {
	k, ok := configKeys[key]
	if !ok {
		return configKey{}, &usageError{fmt.Errorf("unknown config key %q (see 'seqfeat config keys')", key)}
	}
	return k, nil
}

// configPath returns the config file in use, ~/.seqfeat.yaml by default.
func configPath() (string, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".seqfeat.yaml"), nil
}

// runConfigShow prints the effective settings, defaults and environment
// included, under a comment naming the config file.
func runConfigShow(w io.Writer) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "# %s (not created yet)\n", path)
	} else {
		fmt.Fprintf(w, "# %s\n", path)
	}

	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// runConfigSet validates value and writes it to the config file. Only the
// values already in the file and the new one are written.
func runConfigSet(w io.Writer, key, value string) error {
	k, err := lookupConfigKey(key)
	if err != nil {
		return err
	}
	v, err := k.parse(value)
	if err != nil {
		return &usageError{fmt.Errorf("invalid value for %s: %w", key, err)}
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	file := viper.New()
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read config: %w", err)
	}
	file.Set(key, v)
	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	viper.Set(key, v)

	fmt.Fprintf(w, "Set %s = %v in %s\n", key, v, path)
	return nil
}

func parseString(s string) (any, error) {
	return s, nil
}

func parseBool(s string) (any, error) {
	switch s {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

func parseLevel(s string) (any, error) {
	if _, err := zap.ParseAtomicLevel(s); err != nil {
		return nil, err
	}
	return s, nil
}

func parsePositive(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

func parseNonNegative(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}
