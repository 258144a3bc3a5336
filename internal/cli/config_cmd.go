package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Print the settings gate runs with after reading ~/.config/gate/config.yaml and applying GATE_* environment overrides.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if isJSON() {
				return printJSON(out, map[string]any{
					"server_url":      cfg.ServerURL,
					"guard":           cfg.Guard,
					"port":            cfg.Port,
					"sweep_interval":  cfg.SweepInterval.String(),
					"max_visit_hours": cfg.MaxVisitHours,
					"timezone":        cfg.Timezone,
					"dev":             cfg.Dev,
				})
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}
}
