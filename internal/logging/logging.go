// Package logging builds the structured logger used by the command line tools.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Debug mode lowers the level and adds
// caller and timestamp information.
func New(w io.Writer, debug bool) *log.Logger {
	if !debug {
		l := log.New(w)
		l.SetLevel(log.InfoLevel)
		return l
	}
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "video",
	})
	l.SetLevel(log.DebugLevel)
	return l
}
