// Package feed produces the live text shown above the prompt: the tail of
// the chat out file, optionally passed through a user filter.
package feed

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"golang.org/x/sys/unix"

	"lchat/internal/system"
)

// Options selects how the feed is produced.
type Options struct {
	Path    string // file to follow
	History int    // lines shown before following
	Filter  string // used only when present and executable
	Builtin bool   // follow Path in-process instead of running tail
	Tail    string // tail executable, "tail" when empty
}

// Source is a running feed. Read returns io.EOF once the pipeline ends.
type Source struct {
	r       io.Reader
	cancel  context.CancelFunc
	cmds    []*exec.Cmd
	closers []io.Closer

	closeOnce sync.Once
}

// Open starts the feed pipeline described by o.
func Open(ctx context.Context, o Options) (*Source, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Source{cancel: cancel}

	tail := o.Tail
	if tail == "" {
		tail = "tail"
	}
	builtin := o.Builtin
	if !builtin {
		if _, err := exec.LookPath(tail); err != nil {
			system.Logger.Debug("tail not found, following in-process", "tail", tail, "err", err)
			builtin = true
		}
	}

	var r io.Reader
	if builtin {
		f, err := Follow(ctx, o.Path, o.History)
		if err != nil {
			cancel()
			return nil, err
		}
		s.closers = append(s.closers, f)
		r = f
	} else {
		cmd := exec.CommandContext(ctx, tail, "-n", strconv.Itoa(o.History), "-f", o.Path)
		cmd.Stderr = os.Stderr
		out, err := cmd.StdoutPipe()
		if err != nil {
			cancel()
			return nil, fmt.Errorf("tail pipe: %w", err)
		}
		s.cmds = append(s.cmds, cmd)
		r = out
	}

	filtered := Executable(o.Filter)
	if filtered {
		cmd := exec.CommandContext(ctx, o.Filter)
		cmd.Stdin = r
		cmd.Stderr = os.Stderr
		out, err := cmd.StdoutPipe()
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("filter pipe: %w", err)
		}
		s.cmds = append(s.cmds, cmd)
		r = out
	}
	s.r = r

	for i, cmd := range s.cmds {
		if err := cmd.Start(); err != nil {
			s.cmds = s.cmds[:i]
			s.Close()
			return nil, fmt.Errorf("start %s: %w", cmd.Path, err)
		}
	}
	system.Logger.Debug("feed started", "path", o.Path, "builtin", builtin, "filter", filtered)
	return s, nil
}

func (s *Source) Read(p []byte) (int, error) { return s.r.Read(p) }

// Close stops every process and follower in the pipeline and waits for them.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		for _, c := range s.closers {
			_ = c.Close()
		}
		for _, cmd := range s.cmds {
			_ = cmd.Wait()
		}
	})
	return nil
}

// Executable reports whether path is a regular file the process may execute.
func Executable(path string) bool {
	if path == "" {
		return false
	}
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}
