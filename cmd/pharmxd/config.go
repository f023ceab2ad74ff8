package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pharmxd configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.pharmxd.yaml.",
		Example: `  pharmxd config                               # show all config
  pharmxd config set samples.target 20         # curate 20 samples
  pharmxd config set samples.bundle ~/opensnp.zip
  pharmxd config get labels.dir                # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.pharmxd.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// configValue parses value into the type of key's default. Unknown keys
// are stored as booleans or integers when they parse as one.
func configValue(key, value string) (any, error) {
	switch configDefaults[key].(type) {
	case []string:
		return splitList([]string{value}), nil
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", key, value)
		}
		return n, nil
	case uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a non-negative integer", key, value)
		}
		return n, nil
	case string:
		return value, nil
	}

	switch value {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	return value, nil
}

// splitList flattens comma-separated entries, as found in
// PHARMXD_LABELS_DRUGS or a config set value, dropping empty items.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func runConfigSet(key, value string) error {
	val, err := configValue(key, value)
	if err != nil {
		return err
	}
	viper.Set(key, val)

	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(home, ".pharmxd.yaml")
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, path)
	return nil
}

func runConfigGet(key string) error {
	if !viper.IsSet(key) {
		return fmt.Errorf("key %q is not set", key)
	}
	if _, ok := configDefaults[key].([]string); ok {
		for _, item := range splitList(viper.GetStringSlice(key)) {
			fmt.Println(item)
		}
		return nil
	}
	fmt.Println(viper.Get(key))
	return nil
}
