package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the configuration after defaults, config file, CATALOG_* environment and flags are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.cfg
			if cfg.State.DSN != "" {
				cfg.State.DSN = "(set)"
			}
			hints := []string{}
			if cfg.File == "" {
				hints = append(hints, "create ~/.catalog/config.yaml to persist settings (see `catalog docs config`)")
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"config":         cfg,
					"searchDebounce": cfg.SearchDebounce.String(),
				},
				"_hints": hints,
			})
		},
	}
}
