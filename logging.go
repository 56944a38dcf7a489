// logging.go - package-wide diagnostic logger.
//
// Uses charmbracelet/log for leveled diagnostics: one line per rejected
// SysEx message and one line per clipped output sample. ROM loaders
// report problems as returned errors instead.

package scsynth

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the shared diagnostic logger for a Synth. Callers may
// replace it (e.g. to silence output in tests) by assigning to it.
var Logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "scsynth"})
