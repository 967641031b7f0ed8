package jxl

import "github.com/ausocean/utils/logging"

// Logger mirrors the logging interface used by github.com/ausocean/av/revid
// (revid.Logger): a level setter and a leveled log call with key/value
// pairs. The render driver and frame composer accept one so callers can
// plug in their own sink (e.g. backed by gopkg.in/natefinch/lumberjack.v2
// for rotation, as cmd/jxldec does).
type Logger interface {
	SetLevel(int8)
	Log(level int8, message string, params ...interface{})
}

// noopLogger discards everything; used when a decoder is constructed
// without an explicit Logger.
type noopLogger struct{}

func (noopLogger) SetLevel(int8) {}
func (noopLogger) Log(level int8, message string, params ...interface{}) {}

// levels re-exported from github.com/ausocean/utils/logging for callers
// that don't want to import it directly.
const (
	Debug   = logging.Debug
	Info    = logging.Info
	Warning = logging.Warning
	Error   = logging.Error
	Fatal   = logging.Fatal
)
