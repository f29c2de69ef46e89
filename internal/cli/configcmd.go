package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aaaronmiller/ripit/internal/config"
)

// ConfigCmd creates the config command with get, set, and list subcommands.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and modify persistent settings",
		Long: `Read and write the settings file. Values set here become the
defaults for every run; flags and RIPIT_* environment variables still
override them.`,
		Example: `  ripit config list
  ripit config get output-dir
  ripit config set noise-db -40`,
	}

	cmd.AddCommand(configGetCmd(env), configSetCmd(env), configListCmd(env))
	return cmd
}

func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !config.ValidKey(key) {
				return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidConfigKey, key, config.Keys)
			}
			value, err := config.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(env.Stdout, value)
			return nil
		},
	}
}

func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !config.ValidKey(key) {
				return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidConfigKey, key, config.Keys)
			}
			if err := config.Save(key, value); err != nil {
				return err
			}
			successf(env.Stderr, "Set %s = %s", key, value)
			return nil
		},
	}
}

func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := config.List()
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(env.Stdout, "%s = %s\n", k, values[k])
			}
			return nil
		},
	}
}
