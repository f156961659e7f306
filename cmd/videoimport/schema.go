package main

import (
	"github.com/spf13/cobra"

	"github.com/SmooAI/video"
)

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the video prototype, its labels and schema.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := video.NewFactory(video.Config{})
			return writeJSON(cmd.OutOrStdout(), struct {
				Type      string            `json:"type"`
				I18n      map[string]string `json:"i18n"`
				Prototype video.Prototype   `json:"prototype"`
			}{
				Type:      f.Type(),
				I18n:      f.Labels(),
				Prototype: f.Prototype(),
			})
		},
	}
}
