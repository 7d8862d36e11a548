package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-circuitview/pkg/circuit"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		output   string
		inline   bool
		format   string
		renderer string
	)

	cmd := &cobra.Command{
		Use:   "render <circuit-file|->",
		Short: "Render a circuit to HTML",
		Long: `Render reads a circuit description and writes the HTML page to stdout or
to --output. --inline produces the notebook fragment instead of a full
document.`,
		Args: cobra.ExactArgs(1),
	}
	flags := bindRenderFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&inline, "inline", false, "render the notebook fragment")
	cmd.Flags().StringVar(&renderer, "renderer", "", "renderer variant (offline, base); defaults to the offline config setting")
	cmd.Flags().StringVar(&format, "format", "", "input format (json, yaml); defaults to the file extension")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, err := readCircuit(cmd.InOrStdin(), args[0], format)
		if err != nil {
			return err
		}

		reg, err := a.renderers(*flags)
		if err != nil {
			return err
		}
		if renderer == "" {
			renderer = a.variant()
		}
		r, err := reg.Get(renderer)
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(reg.List(), ", "))
		}
		html, err := r.RenderAsHTML(cmd.Context(), c, inline)
		if err != nil {
			return err
		}

		if output == "" {
			_, err := io.WriteString(cmd.OutOrStdout(), html)
			return err
		}
		if err := os.WriteFile(output, []byte(html), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		a.logger.Info("circuit rendered", "output", output, "bytes", len(html), "inline", inline)
		return nil
	}
	return cmd
}

func newViewCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "view <circuit-file|->",
		Short: "Open a rendered circuit in the default browser",
		Args:  cobra.ExactArgs(1),
	}
	flags := bindRenderFlags(cmd)
	cmd.Flags().StringVar(&format, "format", "", "input format (json, yaml); defaults to the file extension")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, err := readCircuit(cmd.InOrStdin(), args[0], format)
		if err != nil {
			return err
		}
		d, err := a.display(*flags)
		if err != nil {
			return err
		}
		return d.ViewBrowser(cmd.Context(), c)
	}
	return cmd
}

func readCircuit(stdin io.Reader, path, format string) (*circuit.Circuit, error) {
	f := circuit.Format(strings.ToLower(strings.TrimSpace(format)))
	switch f {
	case "", circuit.FormatJSON, circuit.FormatYAML:
	default:
		return nil, fmt.Errorf("unknown format %q: must be json or yaml", format)
	}

	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if f == "" {
			f = circuit.FormatJSON
		}
		return circuit.Parse(data, f)
	}
	if f == "" {
		return circuit.Load(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return circuit.Parse(data, f)
}
