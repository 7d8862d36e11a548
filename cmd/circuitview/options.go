package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newOptionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Inspect or persist the effective configuration",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	var path string
	save := &cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration, with flag overrides, to disk",
		Args:  cobra.NoArgs,
	}
	flags := bindRenderFlags(save)
	save.Flags().StringVar(&path, "path", "", "destination (defaults to --config)")
	save.RunE = func(cmd *cobra.Command, args []string) error {
		dest := path
		if dest == "" {
			dest = a.cfgFile
		}
		a.cfg.Render = a.cfg.Render.Merge(flags.options())
		if err := a.cfg.Save(dest); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", dest)
		return nil
	}

	cmd.AddCommand(show, save)
	return cmd
}
