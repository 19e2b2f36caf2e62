// Package chat runs the prompt loop: it feeds keystrokes to the line editor,
// copies feed output to the terminal and redraws the prompt after every
// event.
package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	xansi "github.com/charmbracelet/x/ansi"

	"lchat/internal/slackline"
	"lchat/internal/system"
)

// Terminal is where the loop draws. Cols reports the current width.
type Terminal interface {
	io.Writer
	Cols() int
}

// Alerter decides whether feed text should ring the bell.
type Alerter interface {
	Match(ctx context.Context, text []byte) (bool, error)
}

// Committer receives each committed line. The slice is only valid for the
// duration of the call.
type Committer func(line []byte) error

// Config holds the prompt settings of a Loop.
type Config struct {
	Prompt     string
	AllowEmpty bool // commit empty lines instead of quitting
	Bell       bool
}

// Event is everything that arrived in one wakeup. Keyboard input is applied
// before feed input.
type Event struct {
	Key    byte
	HasKey bool
	KeyErr error

	Feed    []byte
	FeedErr error

	Resized bool
}

// Loop owns the edit line and the prompt image on the terminal. It is driven
// from a single goroutine.
type Loop struct {
	cfg    Config
	term   Terminal
	commit Committer
	alert  Alerter

	sl          *slackline.SlackLine
	promptWidth int
	cols        int

	overhang  int // rows the prompt image spans below its first row
	cursorRow int // row of the cursor within the prompt image

	frame bytes.Buffer
}

// New returns a Loop drawing on term. alert may be nil when cfg.Bell is
// false.
func New(cfg Config, term Terminal, commit Committer, alert Alerter) *Loop {
	l := &Loop{
		cfg:         cfg,
		term:        term,
		commit:      commit,
		alert:       alert,
		sl:          slackline.New(),
		promptWidth: xansi.StringWidth(cfg.Prompt),
	}
	l.refreshCols()
	return l
}

// Line exposes the edit line for inspection.
func (l *Loop) Line() *slackline.SlackLine { return l.sl }

// Overhang returns the number of wrapped rows below the first prompt row.
func (l *Loop) Overhang() int { return l.overhang }

// Close releases the edit line.
func (l *Loop) Close() { l.sl.Free() }

func (l *Loop) refreshCols() {
	l.cols = l.term.Cols()
	if l.cols < 1 {
		l.cols = 1
	}
}

// Run draws the first prompt and handles events until the user quits, the
// context is cancelled or an input fails. A quit returns nil.
func (l *Loop) Run(ctx context.Context, keys, feed io.Reader, resized <-chan struct{}) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keyc := pump(ctx, keys, 64)
	feedc := pump(ctx, feed, ReadSize)

	l.draw()
	if err := l.flush(); err != nil {
		return err
	}

	var pending []byte
	for {
		var ev Event
		gotKey, gotFeed := false, false
		if len(pending) == 0 {
			select {
			case <-ctx.Done():
				l.clear()
				_ = l.flush()
				return ctx.Err()
			case c := <-keyc:
				pending, ev.KeyErr = c.data, c.err
				gotKey = true
			case c := <-feedc:
				ev.Feed, ev.FeedErr = c.data, c.err
				gotFeed = true
			case <-resized:
				ev.Resized = true
			}
		}

		// pick up whatever else is ready in this wakeup
		if !gotKey && len(pending) == 0 && ev.KeyErr == nil {
			select {
			case c := <-keyc:
				pending, ev.KeyErr = c.data, c.err
			default:
			}
		}
		if !gotFeed {
			select {
			case c := <-feedc:
				ev.Feed, ev.FeedErr = c.data, c.err
			default:
			}
		}
		if !ev.Resized {
			select {
			case <-resized:
				ev.Resized = true
			default:
			}
		}
		if len(pending) > 0 {
			ev.Key, ev.HasKey = pending[0], true
			pending = pending[1:]
		}

		done, err := l.Step(ctx, ev)
		if err != nil || done {
			return err
		}
	}
}

// Step applies one wakeup and redraws the prompt. done reports that the
// user asked to quit.
func (l *Loop) Step(ctx context.Context, ev Event) (done bool, err error) {
	if ev.Resized {
		l.refreshCols()
		system.Logger.Debug("terminal resized", "cols", l.cols)
	}

	l.clear()

	switch {
	case ev.HasKey:
		quit, err := l.key(ev.Key)
		if err != nil || quit {
			return quit, errors.Join(err, l.flush())
		}
	case ev.KeyErr != nil:
		_ = l.flush()
		if errors.Is(ev.KeyErr, io.EOF) || errors.Is(ev.KeyErr, io.ErrNoProgress) {
			return false, ErrKeyboardClosed
		}
		return false, fmt.Errorf("read keyboard: %w", ev.KeyErr)
	}

	if ev.FeedErr != nil {
		_ = l.flush()
		if errors.Is(ev.FeedErr, io.EOF) || errors.Is(ev.FeedErr, io.ErrNoProgress) {
			return false, ErrFeedClosed
		}
		return false, fmt.Errorf("read feed: %w", ev.FeedErr)
	}

	if len(ev.Feed) > 0 {
		l.frame.Write(ev.Feed)
		if l.cfg.Bell && l.alert != nil {
			ring, err := l.alert.Match(ctx, ev.Feed)
			if err != nil {
				_ = l.flush()
				return false, fmt.Errorf("bell: %w", err)
			}
			if ring {
				l.frame.WriteByte(xansi.BEL)
			}
		}
	}

	l.draw()
	return false, l.flush()
}

// key handles one keyboard byte. quit reports an empty commit that ends the
// session.
func (l *Loop) key(b byte) (quit bool, err error) {
	if b != xansi.CR {
		if err := l.sl.Keystroke(b); err != nil {
			return false, fmt.Errorf("keystroke %#x: %w", b, err)
		}
		return false, nil
	}
	if l.sl.Len() == 0 && !l.cfg.AllowEmpty {
		return true, nil
	}
	if err := l.commit(l.sl.Bytes()); err != nil {
		return false, fmt.Errorf("commit line: %w", err)
	}
	system.Logger.Debug("line committed", "bytes", l.sl.Len(), "runes", l.sl.RuneLen())
	l.sl.Reset()
	return false, nil
}

func (l *Loop) flush() error {
	if l.frame.Len() == 0 {
		return nil
	}
	_, err := l.term.Write(l.frame.Bytes())
	l.frame.Reset()
	if err != nil {
		return fmt.Errorf("write terminal: %w", err)
	}
	return nil
}
