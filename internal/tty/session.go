// Package tty owns the controlling terminal for the lifetime of a chat
// session: raw mode, cached window geometry and the window title.
package tty

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	xansi "github.com/charmbracelet/x/ansi"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by Open when the input is not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// defaultCols is used when the terminal reports a zero width.
const defaultCols = 80

// Session is an open raw-mode terminal. Geometry is refreshed on SIGWINCH
// and may be read from any goroutine.
type Session struct {
	in  *os.File
	out *os.File

	saved unix.Termios

	cols atomic.Int32
	rows atomic.Int32

	resized chan struct{}
	sigs    chan os.Signal
	done    chan struct{}

	restoreOnce sync.Once
	restoreErr  error
}

// Open saves the terminal attributes of in, switches it to raw mode and
// starts tracking the window size of out. Callers must call Restore on every
// exit path.
func Open(in, out *os.File) (*Session, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s: %w", in.Name(), ErrNotTerminal)
	}
	saved, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("tcgetattr: %w", err)
	}

	raw := *saved
	// Like cfmakeraw(3) but output post-processing stays on so feed lines
	// ending in \n still return the carriage.
	raw.Iflag &^= unix.IMAXBEL | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	raw.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	raw.Cflag &^= unix.CSIZE | unix.PARENB
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return nil, fmt.Errorf("tcsetattr: %w", err)
	}

	s := &Session{
		in:      in,
		out:     out,
		saved:   *saved,
		resized: make(chan struct{}, 1),
		sigs:    make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
	s.refresh()
	signal.Notify(s.sigs, syscall.SIGWINCH)
	go s.watch()
	return s, nil
}

func (s *Session) watch() {
	for {
		select {
		case <-s.sigs:
			s.refresh()
		case <-s.done:
			return
		}
	}
}

// refresh re-reads the window size and signals Resized.
func (s *Session) refresh() {
	cols, rows, err := term.GetSize(int(s.out.Fd()))
	if err != nil || cols <= 0 {
		cols = defaultCols
	}
	s.cols.Store(int32(cols))
	s.rows.Store(int32(rows))
	select {
	case s.resized <- struct{}{}:
	default:
	}
}

// Cols returns the cached terminal width.
func (s *Session) Cols() int { return int(s.cols.Load()) }

// Rows returns the cached terminal height.
func (s *Session) Rows() int { return int(s.rows.Load()) }

// Resized fires after the geometry has been refreshed.
func (s *Session) Resized() <-chan struct{} { return s.resized }

// Write writes p to the terminal.
func (s *Session) Write(p []byte) (int, error) { return s.out.Write(p) }

// SetTitle sets the window title for the current $TERM.
func (s *Session) SetTitle(title string) error {
	_, err := s.out.WriteString(Title(title))
	return err
}

// Restore puts back the saved terminal attributes. It is safe to call more
// than once; later calls return the first result.
func (s *Session) Restore() error {
	s.restoreOnce.Do(func() {
		signal.Stop(s.sigs)
		close(s.done)
		if err := unix.IoctlSetTermios(int(s.in.Fd()), ioctlWriteTermios, &s.saved); err != nil {
			s.restoreErr = fmt.Errorf("tcsetattr: %w", err)
		}
	})
	return s.restoreErr
}

// Title returns the escape sequence that sets the window title. GNU screen
// takes its own sequence for the window name.
func Title(title string) string {
	if os.Getenv("TERM") == "screen" {
		return "\x1bk" + title + "\x1b\\"
	}
	return xansi.SetIconNameWindowTitle(title)
}
