package feed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
)

// follower tails a file in-process, the way tail -f does.
type follower struct {
	f   *os.File
	w   *fsnotify.Watcher
	pr  *io.PipeReader
	pw  *io.PipeWriter
	off int64

	cancel context.CancelFunc
	done   chan struct{}
}

// Follow returns a reader yielding the last lines of path followed by
// everything later appended to it. The reader ends only on Close, context
// cancellation or a watcher error.
func Follow(ctx context.Context, path string, lines int) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		_ = f.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	fl := &follower{f: f, w: w, pr: pr, pw: pw, cancel: cancel, done: make(chan struct{})}
	go fl.run(ctx, lines)
	return fl, nil
}

func (fl *follower) Read(p []byte) (int, error) { return fl.pr.Read(p) }

func (fl *follower) Close() error {
	fl.cancel()
	_ = fl.pr.Close()
	<-fl.done
	return nil
}

func (fl *follower) run(ctx context.Context, lines int) {
	defer close(fl.done)
	defer fl.f.Close()
	defer fl.w.Close()

	data, err := io.ReadAll(fl.f)
	if err != nil {
		fl.pw.CloseWithError(err)
		return
	}
	fl.off = int64(len(data))
	if tail := lastLines(data, lines); len(tail) > 0 {
		if _, err := fl.pw.Write(tail); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			fl.pw.CloseWithError(ctx.Err())
			return
		case ev, ok := <-fl.w.Events:
			if !ok {
				fl.pw.CloseWithError(io.EOF)
				return
			}
			if !ev.Has(fsnotify.Write) {
				continue
			}
			if err := fl.copyNew(); err != nil {
				fl.pw.CloseWithError(err)
				return
			}
		case err, ok := <-fl.w.Errors:
			if !ok {
				err = io.EOF
			}
			fl.pw.CloseWithError(err)
			return
		}
	}
}

// copyNew writes whatever was appended since the last read. A file that
// shrank was truncated and is read again from the start.
func (fl *follower) copyNew() error {
	st, err := fl.f.Stat()
	if err != nil {
		return err
	}
	if st.Size() < fl.off {
		fl.off = 0
	}
	if st.Size() == fl.off {
		return nil
	}
	buf := make([]byte, st.Size()-fl.off)
	n, err := fl.f.ReadAt(buf, fl.off)
	if err != nil && err != io.EOF {
		return err
	}
	fl.off += int64(n)
	_, err = fl.pw.Write(buf[:n])
	return err
}

// lastLines returns the suffix of b holding its last n lines.
func lastLines(b []byte, n int) []byte {
	if n <= 0 {
		return nil
	}
	end := len(b)
	if end > 0 && b[end-1] == '\n' {
		end--
	}
	for i := end - 1; i >= 0; i-- {
		if b[i] == '\n' {
			n--
			if n == 0 {
				return b[i+1:]
			}
		}
	}
	return b
}
