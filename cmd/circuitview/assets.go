package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-circuitview"
)

func newAssetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Work with the bundled browser runtime",
	}

	export := &cobra.Command{
		Use:   "export <dir>",
		Short: "Copy the resolved runtime script and stylesheets into dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
			assets := circuitview.RuntimeAssetsFS()
			for _, name := range circuitview.RuntimeAssetNames() {
				data, err := fs.ReadFile(assets, name)
				if err != nil {
					return fmt.Errorf("reading %s: %w", name, err)
				}
				dest := filepath.Join(dir, name)
				if err := os.WriteFile(dest, data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", dest, err)
				}
				a.logger.Debug("asset exported", "path", dest, "bytes", len(data))
				fmt.Fprintln(cmd.OutOrStdout(), dest)
			}
			return nil
		},
	}

	cmd.AddCommand(export)
	return cmd
}
