package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/SmooAI/video/blob"
	"github.com/SmooAI/video/internal/config"
	"github.com/SmooAI/video/internal/logging"
)

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	fs     afero.Fs
}

// NewRootCommand builds the videoimport command tree.
func NewRootCommand(ctx context.Context) *cobra.Command {
	a := &app{fs: afero.NewOsFs()}
	var envFile string

	root := &cobra.Command{
		Use:          "videoimport",
		Short:        "Import video files into a content-addressed blob store.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cmd.ErrOrStderr(), cfg.Debug)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	root.SetContext(ctx)

	root.AddCommand(newImportCommand(a))
	root.AddCommand(newSchemaCommand())
	root.AddCommand(newProbeCommand(a))
	return root
}

// store opens the configured blob store.
func (a *app) store(ctx context.Context) (blob.Store, error) {
	switch a.cfg.Store {
	case config.StoreMemory:
		return blob.NewMemoryStore(), nil
	case config.StoreFS:
		return blob.NewFSStore(a.fs, a.cfg.BlobDir), nil
	case config.StoreS3:
		client, err := blob.NewS3Client(ctx, blob.S3Config{
			Endpoint:  a.cfg.Endpoint,
			Region:    a.cfg.Region,
			AccessKey: a.cfg.AccessKey,
			SecretKey: a.cfg.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return blob.NewS3Store(client, a.cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown store %q", a.cfg.Store)
	}
}
