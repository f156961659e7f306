package main

import (
	"github.com/spf13/cobra"

	"github.com/SmooAI/video/probe"
)

func newProbeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Print width, height and duration of a local video.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &probe.FFProbe{Logger: a.logger}
			m, err := p.Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"width":    m.Width,
				"height":   m.Height,
				"duration": m.Duration,
			})
		},
	}
}
