package logging

import (
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

type Options struct {
	Level  string
	JSON   bool
	Output io.Writer
}

// New builds the root application logger. Unknown levels fall back to info.
func New(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "visitlog",
		Level:      level,
		Output:     out,
		JSONFormat: opts.JSON,
	})
}

// Discard is used by tests and by commands that must keep stdout clean.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
