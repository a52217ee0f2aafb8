// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// output is shared by the global logger and every module logger, so Setup
// can retarget loggers that were created during package init.
var output = &redirect{w: os.Stderr}

type redirect struct {
	mu sync.RWMutex
	w  io.Writer
}

func (r *redirect) Write(p []byte) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.w.Write(p)
}

func (r *redirect) set(w io.Writer) {
	r.mu.Lock()
	r.w = w
	r.mu.Unlock()
}

func init() {
	log.Logger = base()
}

func base() zerolog.Logger {
	return zerolog.New(output).With().Timestamp().Caller().Logger()
}

// For returns a sub-logger carrying module=name.
func For(name string) zerolog.Logger {
	return base().With().Str("module", name).Logger()
}

// Setup points all loggers at w (stderr when nil) with a console format and
// the named level. Unknown levels fall back to info. stdout is never used:
// it carries the MCP protocol.
func Setup(w io.Writer, level string) zerolog.Level {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	output.set(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.DateTime,
		NoColor:    true,
	})
	return lvl
}
