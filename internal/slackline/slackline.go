package slackline

import (
	"fmt"
	"unicode/utf8"

	xansi "github.com/charmbracelet/x/ansi"
)

// State is the escape-sequence progress of a SlackLine.
type State uint8

const (
	// Idle means no escape sequence is in progress.
	Idle State = iota
	// SawEscape follows an ESC byte.
	SawEscape
	// SawBracket follows ESC [ and expects a command byte.
	SawBracket
	// SawParam follows ESC [ and a parameter byte. It lasts until the final
	// byte of the sequence.
	SawParam
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SawEscape:
		return "esc"
	case SawBracket:
		return "esc["
	case SawParam:
		return "esc[n"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// SlackLine is an editable single line fed one input byte at a time.
type SlackLine struct {
	buf line

	bcur int // first byte of the rune under the cursor
	rcur int // cursor in runes
	rlen int // amount of runes

	state State

	// codepoint being assembled
	ubuf  [utf8.UTFMax]byte
	ulen  int
	uwant int

	// parameter and intermediate bytes of the escape sequence in progress;
	// nparam keeps counting past len(param)
	param  [4]byte
	nparam int
}

// New returns an empty line.
func New() *SlackLine {
	return &SlackLine{buf: make(line, 0, 64)}
}

// Reset empties the line and drops any pending escape or codepoint, keeping
// the allocated storage for the next line.
func (sl *SlackLine) Reset() {
	sl.buf = sl.buf[:0]
	sl.bcur, sl.rcur, sl.rlen = 0, 0, 0
	sl.state = Idle
	sl.ulen, sl.uwant = 0, 0
	sl.nparam = 0
}

// Free resets the line and releases its storage.
func (sl *SlackLine) Free() {
	sl.Reset()
	sl.buf = nil
}

// Bytes returns the encoded line. The slice aliases internal storage and is
// only valid until the next call that mutates sl.
func (sl *SlackLine) Bytes() []byte { return sl.buf }

// Left returns the encoded bytes left of the cursor, with the same aliasing
// rules as Bytes.
func (sl *SlackLine) Left() []byte { return sl.buf[:sl.bcur] }

func (sl *SlackLine) String() string { return string(sl.buf) }

// Len returns the line length in bytes.
func (sl *SlackLine) Len() int { return len(sl.buf) }

// Cursor returns the cursor position in bytes.
func (sl *SlackLine) Cursor() int { return sl.bcur }

// RuneLen returns the line length in runes.
func (sl *SlackLine) RuneLen() int { return sl.rlen }

// RuneCursor returns the cursor position in runes.
func (sl *SlackLine) RuneCursor() int { return sl.rcur }

// State returns the escape-sequence state.
func (sl *SlackLine) State() State { return sl.state }

// Pending returns how many bytes of an incomplete codepoint are buffered.
func (sl *SlackLine) Pending() int { return sl.ulen }

// Keystroke consumes one input byte.
func (sl *SlackLine) Keystroke(b byte) error {
	switch sl.state {
	case SawEscape:
		switch b {
		case '[':
			sl.state = SawBracket
			return nil
		case xansi.ESC:
			return nil
		}
		sl.state = Idle
	case SawBracket:
		if isParam(b) || isIntermediate(b) {
			sl.state = SawParam
			sl.nparam = 0
			sl.collect(b)
			return nil
		}
		sl.state = Idle
		sl.command(b)
		return sl.check()
	case SawParam:
		if isParam(b) || isIntermediate(b) {
			sl.collect(b)
			return nil
		}
		sl.state = Idle
		if isFinal(b) {
			sl.function(b)
		}
		return sl.check()
	}

	switch b {
	case xansi.ESC:
		sl.ulen, sl.uwant = 0, 0
		sl.state = SawEscape
		return nil
	case xansi.DEL, xansi.BS:
		sl.ulen, sl.uwant = 0, 0
		sl.backspace()
	default:
		sl.assemble(b)
	}
	return sl.check()
}

func (sl *SlackLine) command(b byte) {
	switch b {
	case 'D':
		sl.left()
	case 'C':
		sl.right()
	case 'H':
		sl.home()
	case 'F':
		sl.end()
	}
}

func (sl *SlackLine) collect(b byte) {
	if sl.nparam < len(sl.param) {
		sl.param[sl.nparam] = b
	}
	sl.nparam++
}

// function runs a parameterised sequence ending in final. Only the VT
// editing keys are understood; modified cursor keys such as ESC [ 1 ; 5 C
// are absorbed.
func (sl *SlackLine) function(final byte) {
	if final != '~' || sl.nparam > len(sl.param) {
		return
	}
	switch string(sl.param[:sl.nparam]) {
	case "1", "7":
		sl.home()
	case "4", "8":
		sl.end()
	case "3":
		sl.deleteForward()
	}
}

func isParam(b byte) bool        { return b >= 0x30 && b <= 0x3F }
func isIntermediate(b byte) bool { return b >= 0x20 && b <= 0x2F }
func isFinal(b byte) bool        { return b >= 0x40 && b <= 0x7E }

func (sl *SlackLine) assemble(b byte) {
	if sl.ulen > 0 {
		if isContinuation(b) {
			sl.ubuf[sl.ulen] = b
			sl.ulen++
			if sl.ulen == sl.uwant {
				sl.insert()
			}
			return
		}
		// broken sequence: start over with b as a leading byte
		sl.ulen, sl.uwant = 0, 0
	}

	n := seqLen(b)
	if n == 0 {
		return
	}
	sl.ubuf[0] = b
	sl.ulen, sl.uwant = 1, n
	if n == 1 {
		sl.insert()
	}
}

func (sl *SlackLine) insert() {
	sl.buf.insert(sl.bcur, sl.ubuf[:sl.ulen])
	sl.bcur += sl.ulen
	sl.rcur++
	sl.rlen++
	sl.ulen, sl.uwant = 0, 0
}

func (sl *SlackLine) backspace() {
	if sl.rcur == 0 {
		return
	}
	start := sl.buf.prevStart(sl.bcur)
	sl.buf.remove(start, sl.bcur-start)
	sl.bcur = start
	sl.rcur--
	sl.rlen--
}

func (sl *SlackLine) deleteForward() {
	if sl.rcur == sl.rlen {
		return
	}
	end := sl.buf.nextEnd(sl.bcur)
	sl.buf.remove(sl.bcur, end-sl.bcur)
	sl.rlen--
}

func (sl *SlackLine) home() { sl.bcur, sl.rcur = 0, 0 }

func (sl *SlackLine) end() { sl.bcur, sl.rcur = len(sl.buf), sl.rlen }

func (sl *SlackLine) left() {
	if sl.rcur == 0 {
		return
	}
	sl.bcur = sl.buf.prevStart(sl.bcur)
	sl.rcur--
}

func (sl *SlackLine) right() {
	if sl.rcur == sl.rlen {
		return
	}
	sl.bcur = sl.buf.nextEnd(sl.bcur)
	sl.rcur++
}

func (sl *SlackLine) check() error {
	blen := len(sl.buf)
	switch {
	case sl.bcur < 0 || sl.bcur > blen:
		return fmt.Errorf("%w: byte cursor %d outside [0,%d]", ErrInvariant, sl.bcur, blen)
	case sl.rcur < 0 || sl.rcur > sl.rlen:
		return fmt.Errorf("%w: rune cursor %d outside [0,%d]", ErrInvariant, sl.rcur, sl.rlen)
	case sl.rlen > blen || sl.rcur > sl.bcur:
		return fmt.Errorf("%w: %d runes in %d bytes", ErrInvariant, sl.rlen, blen)
	case sl.bcur < blen && isContinuation(sl.buf[sl.bcur]):
		return fmt.Errorf("%w: byte cursor %d inside a codepoint", ErrInvariant, sl.bcur)
	case sl.ulen > sl.uwant || sl.uwant > utf8.UTFMax:
		return fmt.Errorf("%w: %d of %d pending bytes", ErrInvariant, sl.ulen, sl.uwant)
	}
	return nil
}
