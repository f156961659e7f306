package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SmooAI/video"
	"github.com/SmooAI/video/blob"
	"github.com/SmooAI/video/probe"
	"github.com/SmooAI/video/source"
)

func newImportCommand(a *app) *cobra.Command {
	var (
		prototype string
		withProbe bool
		quiet     bool
	)
	cmd := &cobra.Command{
		Use:   "import <file|http(s) url|s3://bucket/key>",
		Short: "Stream a video into the blob store and print its record.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if prototype == "" {
				prototype = a.cfg.Prototype
			}

			store, err := a.store(ctx)
			if err != nil {
				return err
			}
			h, err := a.handle(ctx, args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			progress := &video.Progress{}
			stopProgress := func() {}
			if !quiet {
				stopProgress = renderProgress(cmd.ErrOrStderr(), progress, h.Size())
			}
			im := video.NewImporter(store, video.WithLogger(a.logger))
			rec, err := im.Import(ctx, []video.FileHandle{h}, video.ImportOptions{
				Prototype: video.Ref(prototype),
				Progress:  progress,
				ChunkSize: a.cfg.ChunkSize,
			})
			stopProgress()
			if err != nil {
				return err
			}

			if withProbe {
				p := &probe.FFProbe{Logger: a.logger}
				m, err := p.ProbeBlob(ctx, store, rec.Blob)
				if err != nil {
					a.logger.Warn("could not read video dimensions", "err", err)
				} else {
					m.Apply(rec)
				}
			}
			if err := video.NewFactory(video.Config{}).Validate(rec); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().StringVar(&prototype, "prototype", "", "prototype reference (defaults to VIDEO_PROTOTYPE)")
	cmd.Flags().BoolVar(&withProbe, "probe", false, "read width, height and duration with ffprobe")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not render progress")
	return cmd
}

// handle resolves a command line argument to a file handle.
func (a *app) handle(ctx context.Context, arg string) (*source.Handle, error) {
	switch {
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		return source.FromURL(ctx, arg)
	case strings.HasPrefix(arg, "s3://"):
		bucket, key, ok := parseS3URI(arg)
		if !ok {
			return nil, fmt.Errorf("invalid S3 URI %q", arg)
		}
		client, err := blob.NewS3Client(ctx, blob.S3Config{
			Endpoint:  a.cfg.Endpoint,
			Region:    a.cfg.Region,
			AccessKey: a.cfg.AccessKey,
			SecretKey: a.cfg.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return source.FromS3(ctx, client, bucket, key)
	default:
		return source.FromFile(a.fs, arg)
	}
}

// parseS3URI extracts bucket and key from an s3://bucket/key URI.
func parseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// renderProgress redraws a progress line until the returned stop is called.
func renderProgress(w io.Writer, p *video.Progress, total int64) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})
	draw := func() {
		v := p.Value()
		if v > 0.99 {
			fmt.Fprintf(w, "\r%-60s", "Please wait ...")
			return
		}
		line := fmt.Sprintf("Importing... %d%%", p.Percent())
		if total > 0 {
			line += fmt.Sprintf(" (%s of %s)", humanize.Bytes(uint64(v*float64(total))), humanize.Bytes(uint64(total)))
		}
		fmt.Fprintf(w, "\r%-60s", line)
	}
	go func() {
		defer close(finished)
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				draw()
				fmt.Fprintln(w)
				return
			case <-ticker.C:
				draw()
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
