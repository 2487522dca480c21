package cli

import (
	"fmt"

	"github.com/imgajeed76/datagrid/internal/config"
	"github.com/imgajeed76/datagrid/internal/util"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key [value]]",
		Short: "Get and set options",
		Long: `Get and set datagrid options. Values are stored in the config file
and used as defaults by every command.

Examples:
  datagrid config grid.page_size        # Get value
  datagrid config grid.page_size 25     # Set value
  datagrid config grid.resize_mode onEnd
  datagrid config --list                # List all options

Options:
` + config.GenerateHelpText(),
		Args: cobra.MaximumNArgs(2),
		RunE: runConfig,
	}

	cmd.Flags().BoolP("list", "l", false, "List all configuration")

	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	listAll, _ := cmd.Flags().GetBool("list")
	out := cmd.OutOrStdout()

	if listAll || len(args) == 0 {
		for _, key := range config.ListKeys() {
			value, _ := cfg.GetValue(key)
			fmt.Fprintf(out, "%s=%s\n", key, value)
		}
		return nil
	}

	key := args[0]
	if len(args) == 1 {
		value, ok := cfg.GetValue(key)
		if !ok {
			return unknownKeyError(key)
		}
		fmt.Fprintln(out, value)
		return nil
	}

	if _, ok := cfg.GetValue(key); !ok {
		return unknownKeyError(key)
	}
	if err := cfg.SetValue(key, args[1]); err != nil {
		return util.InvalidArgumentError(key, args[1], "").Wrap(err)
	}
	if err := cfg.Save(cfgPath); err != nil {
		return util.NewError("Cannot save config file").WithContext(configFile()).Wrap(err)
	}
	return nil
}

func unknownKeyError(key string) error {
	return util.NewError("Unknown config key: "+key).
		WithSuggestions("datagrid config --list   # Show all keys").
		Wrap(util.ErrUnknownKey)
}
