// Package bell decides whether a feed update should ring the terminal bell.
package bell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Matcher matches feed text against a grep pattern file.
type Matcher struct {
	// PatternFile holds one grep pattern per line. When it cannot be read
	// every update matches.
	PatternFile string
	// Grep is the grep executable, "grep" when empty.
	Grep string
}

// Match reports whether text matches any pattern in m.PatternFile.
// An error means grep could not be run at all.
func (m Matcher) Match(ctx context.Context, text []byte) (bool, error) {
	if m.PatternFile == "" || unix.Access(m.PatternFile, unix.R_OK) != nil {
		return true, nil
	}
	name := m.Grep
	if name == "" {
		name = "grep"
	}
	cmd := exec.CommandContext(ctx, name, "-qf", m.PatternFile)
	cmd.Stdin = bytes.NewReader(text)
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		// 1 is no match, 2 is a grep error; neither rings
		return false, nil
	}
	return false, fmt.Errorf("run %s: %w", name, err)
}
