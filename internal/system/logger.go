package system

import (
    "os"

    clog "github.com/charmbracelet/log"
)

// Logger is the shared application logger.
// It prints to stderr with timestamps enabled; while the terminal is in raw
// mode stderr is the chat screen, so sessions route it to a file instead.
var Logger = clog.NewWithOptions(os.Stderr, clog.Options{
    ReportTimestamp: true,
})

// LogToFile appends log output to path and returns a func restoring stderr.
// debug lowers the level to include per-event logging.
func LogToFile(path string, debug bool) (func(), error) {
    f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
    if err != nil {
        return nil, err
    }
    Logger.SetOutput(f)
    if debug {
        Logger.SetLevel(clog.DebugLevel)
    }
    return func() {
        Logger.SetOutput(os.Stderr)
        Logger.SetLevel(clog.InfoLevel)
        _ = f.Close()
    }, nil
}
