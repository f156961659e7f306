// Package probe reads playback metadata (frame size and duration) from
// video files with ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	execute "github.com/alexellis/go-execute/v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/SmooAI/video"
	"github.com/SmooAI/video/blob"
)

// ErrNoVideoStream is returned when ffprobe finds no video stream.
var ErrNoVideoStream = errors.New("probe: no video stream")

// Metadata is what a player learns once a video's header is loaded.
type Metadata struct {
	Width    int
	Height   int
	Duration float64 // seconds
}

// Apply merges m into rec.
func (m Metadata) Apply(rec *video.Record) {
	rec.SetDimensions(m.Width, m.Height, m.Duration)
}

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, command string, args []string) (string, error)

// ExecRunner runs commands as child processes.
func ExecRunner(ctx context.Context, command string, args []string) (string, error) {
	task := execute.ExecTask{
		Command: command,
		Args:    args,
	}
	res, err := task.Execute(ctx)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%s exited with %d: %s", command, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return res.Stdout, nil
}

// FFProbe extracts Metadata with the ffprobe binary.
type FFProbe struct {
	// Binary defaults to "ffprobe".
	Binary string
	// Run defaults to ExecRunner.
	Run    Runner
	Logger *log.Logger
	// Fs holds the temp copies made by ProbeBlob. Defaults to the OS
	// filesystem, which is what the ffprobe binary can read.
	Fs afero.Fs
}

type ffprobeOutput struct {
	Streams []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads the metadata of the file at path.
func (p *FFProbe) Probe(ctx context.Context, path string) (Metadata, error) {
	bin := p.Binary
	if bin == "" {
		bin = "ffprobe"
	}
	run := p.Run
	if run == nil {
		run = ExecRunner
	}

	out, err := run(ctx, bin, []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height:format=duration",
		"-of", "json",
		path,
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("probe %s: %w", path, err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return Metadata{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(parsed.Streams) == 0 {
		return Metadata{}, ErrNoVideoStream
	}

	m := Metadata{
		Width:  parsed.Streams[0].Width,
		Height: parsed.Streams[0].Height,
	}
	// Duration is missing for some live formats; keep 0 then.
	if parsed.Format.Duration != "" {
		d, err := strconv.ParseFloat(parsed.Format.Duration, 64)
		if err != nil {
			return Metadata{}, fmt.Errorf("parse duration %q: %w", parsed.Format.Duration, err)
		}
		m.Duration = d
	}
	if p.Logger != nil {
		p.Logger.Debug("loaded video props", "width", m.Width, "height", m.Height, "duration", m.Duration)
	}
	return m, nil
}

// ProbeBlob copies a stored blob to a temp file and probes it.
func (p *FFProbe) ProbeBlob(ctx context.Context, store blob.Store, id string) (Metadata, error) {
	fs := p.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	r, err := store.Get(ctx, id)
	if err != nil {
		return Metadata{}, fmt.Errorf("get blob: %w", err)
	}
	defer r.Close()

	dir := os.TempDir()
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return Metadata{}, fmt.Errorf("create temp dir: %w", err)
	}
	tmp, err := afero.TempFile(fs, dir, "video-probe-*")
	if err != nil {
		return Metadata{}, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err := fs.Remove(tmp.Name()); err != nil && p.Logger != nil {
			p.Logger.Warn("remove probe copy", "path", tmp.Name(), "err", err)
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return Metadata{}, fmt.Errorf("copy blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Metadata{}, fmt.Errorf("close temp file: %w", err)
	}
	return p.Probe(ctx, tmp.Name())
}
