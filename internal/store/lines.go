package store

import (
    "errors"
    "fmt"
    "os"
    "strings"
)

// AppendLine writes line followed by a newline to the end of path.
// The file is opened and closed per call and must already exist: the chat
// client usually owns it as a FIFO.
func AppendLine(path string, line []byte) error {
    if strings.TrimSpace(path) == "" {
        return errors.New("empty path")
    }
    f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
    if err != nil {
        return fmt.Errorf("open: %w", err)
    }
    b := make([]byte, 0, len(line)+1)
    b = append(b, line...)
    b = append(b, '\n')
    if _, err := f.Write(b); err != nil {
        _ = f.Close()
        return fmt.Errorf("write %s: %w", path, err)
    }
    if err := f.Close(); err != nil {
        return fmt.Errorf("close %s: %w", path, err)
    }
    return nil
}
