package cli

import (
	"mandalart-cli/internal/format"
	"mandalart-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.mandalart/config.json",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func configValues(cfg *store.GlobalConfig) (map[string]string, error) {
	out := map[string]string{}
	for _, k := range store.ConfigKeys() {
		v, err := cfg.Get(k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [key]",
		Short: "Show every setting, or one key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.config()
			if len(args) == 1 {
				v, err := cfg.Get(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, format.Envelope{Data: map[string]any{"key": args[0], "value": v}})
			}

			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			values, err := configValues(cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{
				Data:  map[string]any{"path": path, "values": values},
				Hints: []string{"mandalart config set <key> <value>", "mandalart docs config"},
			})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Set a key (omit the value to clear it)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			cfg := app.config()
			if err := cfg.Set(args[0], value); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			v, _ := cfg.Get(args[0])
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{"key": args[0], "value": v}})
		},
	}
}
